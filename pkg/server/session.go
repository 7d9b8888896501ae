package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/intelevision/go-intelevision/internal/log"
	"github.com/intelevision/go-intelevision/pkg/pipeline"
	"github.com/intelevision/go-intelevision/pkg/sensor"
)

const (
	// writeWait is how long to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds one inbound sensor payload.
	maxMessageSize = 256 * 1024

	// sendBuffer is the outbound queue depth per client.
	sendBuffer = 64
)

// session is one connected perception client. The read loop is the only
// caller of the pipeline for this client, so event handling and triggers
// are serialized in arrival order by construction.
type session struct {
	id   string
	conn *websocket.Conn
	pipe *pipeline.Pipeline
	send chan []byte
	done chan struct{}
}

func newSession(conn *websocket.Conn, pipe *pipeline.Pipeline) *session {
	return &session{
		id:   uuid.NewString(),
		conn: conn,
		pipe: pipe,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// run pumps the connection until it closes, then removes every trace of
// the client.
func (s *session) run() {
	log.Info("client connected", "client", s.id)

	go s.writePump()
	s.readPump() // blocks until the connection closes

	close(s.done)
	s.pipe.Disconnect(s.id)
	log.Info("client disconnected", "client", s.id)
}

// readPump reads and dispatches inbound messages.
func (s *session) readPump() {
	defer s.conn.Close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(pongWait))

		msg, err := sensor.ParseMessage(data)
		if err != nil {
			// Malformed payloads are dropped, never fatal.
			log.Warn("invalid message from client", "client", s.id, "error", err)
			continue
		}

		switch msg.Type {
		case sensor.TypePing:
			s.enqueue(sensor.TypePong, nil)

		case sensor.TypeSensorData:
			s.handleSensorData(msg)

		default:
			log.Debug("unknown message type", "client", s.id, "type", msg.Type)
		}
	}
}

// handleSensorData feeds one event through the pipeline and delivers the
// description if one was produced. A pipeline failure notifies this
// client and leaves every other client untouched.
func (s *session) handleSensorData(msg *sensor.Message) {
	var ev sensor.DetectionEvent
	if err := msg.ParseData(&ev); err != nil {
		log.Warn("invalid sensor data", "client", s.id, "error", err)
		return
	}

	res, err := s.process(ev)
	if err != nil {
		log.Error("pipeline error", "client", s.id, "error", err)
		s.enqueue(sensor.TypeError, sensor.ErrorData{Message: "error processing data"})
		return
	}
	if res == nil {
		return
	}
	s.enqueue(sensor.TypeDescription, res)
}

// process shields the read loop from pipeline panics: a broken window for
// one client must not take the connection down with a stack trace.
func (s *session) process(ev sensor.DetectionEvent) (res *pipeline.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("panic in pipeline: %v", r)
		}
	}()
	return s.pipe.HandleEvent(context.Background(), s.id, ev)
}

// enqueue wraps a payload in the envelope and queues it for delivery.
// Delivery failures are logged only; they never affect pipeline state.
func (s *session) enqueue(msgType sensor.MessageType, data interface{}) {
	msg, err := sensor.NewMessage(msgType, data)
	if err != nil {
		log.Error("failed to build message", "client", s.id, "type", msgType, "error", err)
		return
	}
	raw, err := msg.Bytes()
	if err != nil {
		log.Error("failed to encode message", "client", s.id, "type", msgType, "error", err)
		return
	}

	select {
	case s.send <- raw:
	default:
		log.Warn("send queue full, dropping message", "client", s.id, "type", msgType)
	}
}

// writePump is the only goroutine that writes to the connection.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case raw := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				log.Debug("write failed", "client", s.id, "error", err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
