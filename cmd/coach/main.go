package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThyDrSlen/form-factor-sub005/internal/config"
	"github.com/ThyDrSlen/form-factor-sub005/internal/log"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/companion"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/history"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/profiles"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/protocol"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/session"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/telemetry"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/web"
)

func main() {
	// Command line flags
	port := flag.String("port", config.Port(), "Dashboard/WebSocket port")
	pattern := flag.String("pattern", "squat", "Movement pattern (squat, hinge, lunge, horizontal_press, vertical_press)")
	broker := flag.String("mqtt", config.MQTTBroker(), "MQTT broker URL for telemetry (empty disables)")
	logLevel := flag.String("log-level", config.LogLevel(), "Log level (debug, info, warn, error)")
	flag.Parse()

	log.Init(*logLevel)

	cfg := session.DefaultConfig()
	cfg.Pattern = profiles.Pattern(*pattern)
	sess := session.New(cfg)

	log.Info("coach starting",
		"session", sess.ID(),
		"pattern", *pattern,
		"port", *port)

	// Companion device hub: phones push pose frames in, coached
	// devices get updates back.
	devices := companion.NewHub()
	devices.OnPoseFrame(func(deviceID string, frame *protocol.PoseFrame) {
		sess.Process(*frame)
	})

	// Set archive: file-backed when FF_HISTORY_PATH is set, otherwise
	// in-memory for the lifetime of the process.
	var store history.Store = history.NewMemoryStore()
	if path := config.HistoryPath(); path != "" {
		store = history.NewJSONStore(path)
	}
	archive := history.New(store)

	// Dashboard server; also a coaching sink so browsers see every
	// update live.
	server := web.NewServer(*port, sess, devices, archive)
	sess.AddSink(server)
	sess.AddSink(devices)

	// Optional MQTT telemetry.
	if *broker != "" {
		publisher, err := telemetry.NewPublisher(telemetry.Config{
			Broker:   *broker,
			ClientID: "form-factor-" + sess.ID(),
			Topic:    config.MQTTTopic(),
		})
		if err != nil {
			log.Warn("telemetry disabled", "error", err)
		} else {
			defer publisher.Close()
			sess.AddSink(publisher)
		}
	}

	server.StartAsync()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down", "session", sess.ID(), "reps", sess.RepCount())
	if err := server.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
	sess.Close()
}
