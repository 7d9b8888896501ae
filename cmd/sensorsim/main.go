// Command sensorsim simulates a perception client: it connects to the
// backend websocket, streams synthetic detection events, and prints every
// description it receives. Useful for exercising the aggregation window
// and the relevance filter without real sensors.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/intelevision/go-intelevision/pkg/sensor"
)

func main() {
	url := flag.String("url", "ws://localhost:3001/ws", "Backend websocket URL")
	interval := flag.Duration("interval", 250*time.Millisecond, "Delay between events")
	scenario := flag.String("scenario", "mixed", "Scenario: person, vehicle, mixed, empty")
	flag.Parse()

	fmt.Println("📡 InteLeVision sensor simulator")
	fmt.Printf("   Backend:  %s\n", *url)
	fmt.Printf("   Scenario: %s\n", *scenario)
	fmt.Println()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(*url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: connect failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()
	fmt.Println("✅ Connected")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go readDescriptions(conn)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	seq := 0
	for {
		select {
		case <-sigChan:
			fmt.Println("\n👋 Done")
			conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			if err := sendEvent(conn, *scenario, seq); err != nil {
				fmt.Fprintf(os.Stderr, "Error: send failed: %v\n", err)
				return
			}
			seq++
		}
	}
}

// readDescriptions prints server messages as they arrive.
func readDescriptions(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := sensor.ParseMessage(data)
		if err != nil {
			continue
		}

		switch msg.Type {
		case sensor.TypeDescription:
			var res struct {
				Description string `json:"description"`
				Fallback    bool   `json:"fallback"`
			}
			if err := msg.ParseData(&res); err != nil {
				continue
			}
			tag := ""
			if res.Fallback {
				tag = " (fallback)"
			}
			fmt.Printf("🔊 %q%s\n", res.Description, tag)

		case sensor.TypeError:
			fmt.Printf("⚠️  server error: %s\n", string(msg.Data))
		}
	}
}

// sendEvent builds and sends one synthetic detection event. Scenarios
// mutate slowly so some windows repeat (exercising suppression) and some
// change (exercising relevance).
func sendEvent(conn *websocket.Conn, scenario string, seq int) error {
	ev := buildEvent(scenario, seq)

	msg, err := sensor.NewMessage(sensor.TypeSensorData, ev)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, raw)
}

func buildEvent(scenario string, seq int) sensor.DetectionEvent {
	// Flip phase every ~40 events so scenes stay stable for several
	// aggregation windows before changing.
	phase := (seq / 40) % 2

	var ev sensor.DetectionEvent
	switch scenario {
	case "person":
		ev.People = []sensor.PersonDetection{personFor(phase)}
	case "vehicle":
		ev.Objects = []sensor.ObjectDetection{vehicleFor(phase)}
	case "empty":
		// No detections at all: the backend should stay silent.
	default: // mixed
		ev.People = []sensor.PersonDetection{personFor(phase)}
		if phase == 1 {
			ev.Objects = []sensor.ObjectDetection{vehicleFor(phase)}
		}
	}
	return ev
}

func personFor(phase int) sensor.PersonDetection {
	if phase == 0 {
		return sensor.PersonDetection{
			Position:   "front",
			Proximity:  "near",
			Expression: "neutral",
			Gesture:    sensor.GestureNone,
			MicroSignals: []sensor.MicroSignal{
				{Name: "eyeBlink_L", Score: 0.2},
			},
		}
	}
	return sensor.PersonDetection{
		Position:   "front",
		Proximity:  "near",
		Expression: "happy",
		Gesture:    "wave",
		MicroSignals: []sensor.MicroSignal{
			{Name: "mouthSmile_L", Score: 0.8},
			{Name: "mouthSmile_R", Score: 0.75},
			{Name: "cheekSquint_L", Score: 0.5},
		},
	}
}

func vehicleFor(phase int) sensor.ObjectDetection {
	if phase == 0 {
		return sensor.ObjectDetection{
			Kind:      "car",
			Motion:    sensor.MotionStatic,
			Direction: "left",
			Proximity: "far",
		}
	}
	return sensor.ObjectDetection{
		Kind:      "car",
		Motion:    sensor.MotionApproaching,
		Direction: "front",
		Proximity: "near",
	}
}
