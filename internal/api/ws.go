package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/vibeguard/internal/detect"
	"github.com/sprite-ai/vibeguard/internal/model"
	"github.com/sprite-ai/vibeguard/internal/scan"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgStartScan = "start_scan"
	wsMsgAnalyze   = "analyze"
)

// WebSocket message types to client.
const (
	wsMsgFileResult   = "file_result"
	wsMsgScanComplete = "scan_complete"
	wsMsgAnalysis     = "analysis"
	wsMsgError        = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsStartScan is the payload for "start_scan" messages.
type wsStartScan struct {
	Files             []scan.FileInput `json:"files"`
	ReviewTimeSeconds *int             `json:"review_time_seconds,omitempty"`
	Config            string           `json:"config,omitempty"`
}

// wsAnalyzeMsg is the payload for "analyze" messages.
type wsAnalyzeMsg struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// wsFileResult streams one file's outcome while a scan is running.
type wsFileResult struct {
	Index        int              `json:"index"`
	Total        int              `json:"total"`
	Path         string           `json:"path"`
	AIConfidence float64          `json:"ai_confidence"`
	Status       model.FileStatus `json:"status"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sendWSError(conn, "invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgStartScan:
			s.handleWSScan(conn, msg.Data)
		case wsMsgAnalyze:
			s.handleWSAnalyze(conn, msg.Data)
		default:
			sendWSError(conn, "unknown message type: "+msg.Type)
		}
	}
}

// handleWSScan streams per-file results as detection progresses and then
// the complete report with the policy outcome.
func (s *Server) handleWSScan(conn *websocket.Conn, data json.RawMessage) {
	var req wsStartScan
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(conn, "invalid start_scan data")
		return
	}

	scanner, err := s.scannerFor(req.Config)
	if err != nil {
		sendWSError(conn, err.Error())
		return
	}

	for i, f := range req.Files {
		result := s.detector.Detect(f.Content, detect.LanguageForFile(f.Path), "")
		sendWSMessage(conn, wsMsgFileResult, wsFileResult{
			Index:        i,
			Total:        len(req.Files),
			Path:         f.Path,
			AIConfidence: result.Probability,
			Status:       model.StatusFor(result.Probability),
		})
	}

	report := scanner.Run(req.Files, req.ReviewTimeSeconds)
	sendWSMessage(conn, wsMsgScanComplete, report)
}

func (s *Server) handleWSAnalyze(conn *websocket.Conn, data json.RawMessage) {
	var req wsAnalyzeMsg
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(conn, "invalid analyze data")
		return
	}
	if req.Code == "" {
		sendWSError(conn, "code is required")
		return
	}

	language := req.Language
	if language == "" {
		if req.Filename != "" {
			language = detect.LanguageForFile(req.Filename)
		} else {
			language = "auto"
		}
	}

	result := s.detector.Detect(req.Code, language, "")
	sendWSMessage(conn, wsMsgAnalysis, result)
}

func sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("ws marshal: %v", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write: %v", err)
	}
}

func sendWSError(conn *websocket.Conn, errMsg string) {
	sendWSMessage(conn, wsMsgError, map[string]string{"message": errMsg})
}
