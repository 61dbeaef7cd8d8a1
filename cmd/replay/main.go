package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ThyDrSlen/form-factor-sub005/internal/config"
	"github.com/ThyDrSlen/form-factor-sub005/internal/log"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/companion"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/profiles"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/protocol"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/sensors"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/session"
)

func main() {
	pattern := flag.String("pattern", "squat", "Movement pattern for the replayed set")
	remote := flag.String("remote", "", "Engine hub URL; when set, frames stream to a remote engine instead of running locally")
	classify := flag.Bool("classify", false, "Print the sensor availability classification table and exit")
	verbose := flag.Bool("v", false, "Print every frame instead of just cues and rep edges")
	logLevel := flag.String("log-level", config.LogLevel(), "Log level")
	flag.Parse()

	log.Init(*logLevel)

	if *classify {
		printClassificationTable()
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: replay [flags] <frames.jsonl>")
		os.Exit(1)
	}

	file, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Error("open recording", "error", err)
		os.Exit(1)
	}
	defer file.Close()

	if *remote != "" {
		if err := replayRemote(file, *remote); err != nil {
			log.Error("remote replay failed", "error", err)
			os.Exit(1)
		}
		return
	}

	replayLocal(file, profiles.Pattern(*pattern), *verbose)
}

// replayLocal runs a recording through an in-process session and
// prints what a user would have heard.
func replayLocal(file *os.File, pattern profiles.Pattern, verbose bool) {
	cfg := session.DefaultConfig()
	cfg.Pattern = pattern
	sess := session.New(cfg)

	frames := 0
	cueCount := 0
	lastRep := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var frame protocol.PoseFrame
		if err := json.Unmarshal(line, &frame); err != nil {
			log.Warn("skipping malformed frame", "line", frames+1, "error", err)
			continue
		}

		bs, mode := sess.Process(frame)
		frames++

		if verbose {
			fmt.Printf("t=%7.3f  phase=%-10s reps=%d  conf=%.2f  mode=%s\n",
				bs.T, bs.Phase, bs.RepCount, bs.Confidence, mode)
		}
		if bs.RepCount > lastRep {
			lastRep = bs.RepCount
			fmt.Printf("t=%7.3f  ── rep %d ──\n", bs.T, bs.RepCount)
		}
		if bs.Cue != nil {
			cueCount++
			fmt.Printf("t=%7.3f  [%s] %s\n", bs.T, bs.Cue.RuleID, bs.Cue.Message)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("read recording", "error", err)
	}

	snap := sess.Snapshot()
	fmt.Println()
	fmt.Printf("frames:      %d\n", frames)
	fmt.Printf("reps:        %d\n", sess.RepCount())
	fmt.Printf("cues:        %d\n", cueCount)
	fmt.Printf("final phase: %s\n", snap.Phase)
	fmt.Printf("final mode:  %s\n", snap.Mode)
}

// replayRemote streams the recording to a running engine over its
// device WebSocket, printing coaching updates as they come back.
func replayRemote(file *os.File, url string) error {
	uplink := companion.NewUplink(url)
	uplink.OnCoaching(func(update *protocol.CoachingUpdate) {
		if update.Cue != "" {
			fmt.Printf("t=%7.3f  %s\n", update.T, update.Cue)
		}
	})

	if err := uplink.Connect(); err != nil {
		return err
	}
	defer uplink.Close()

	frames := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var frame protocol.PoseFrame
		if err := json.Unmarshal(line, &frame); err != nil {
			continue
		}
		if err := uplink.SendPoseFrame(frame); err != nil {
			return err
		}
		frames++
	}

	// Give the last coaching updates time to come back.
	time.Sleep(500 * time.Millisecond)
	fmt.Printf("\nstreamed %d frames to %s\n", frames, url)
	return scanner.Err()
}

// printClassificationTable enumerates every sensor combination and
// the fusion mode it maps to.
func printClassificationTable() {
	fmt.Printf("%-7s %-24s %-7s %-12s %s\n", "camera", "watch", "in-ear", "mode", "reasons")
	for _, combo := range []struct {
		camera bool
		watch  sensors.WatchPresence
		inEar  bool
	}{
		{true, sensors.WatchPresence{Paired: true, Installed: true, Reachable: true}, true},
		{true, sensors.WatchPresence{Paired: true, Installed: true, Reachable: true}, false},
		{true, sensors.WatchPresence{Paired: true, Installed: true}, true},
		{true, sensors.WatchPresence{Paired: true}, true},
		{true, sensors.WatchPresence{}, true},
		{true, sensors.WatchPresence{}, false},
		{false, sensors.WatchPresence{Paired: true, Installed: true, Reachable: true}, true},
	} {
		presence := sensors.Presence{Camera: combo.camera, Watch: combo.watch, InEar: combo.inEar}
		caps := sensors.EvaluateFusionCapabilities(presence)
		watch := sensors.DeriveWatchAvailability(combo.watch)

		reasons := "-"
		if len(caps.Reasons) > 0 {
			reasons = fmt.Sprint(caps.Reasons)
		}
		fmt.Printf("%-7v %-24s %-7v %-12s %s\n",
			combo.camera, watch.Status, combo.inEar, caps.Mode, reasons)
	}
}
