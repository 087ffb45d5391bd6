package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/deeprov/rovlink"
	"github.com/deeprov/rovlink/mavlite"
	"github.com/deeprov/rovlink/relay"
	"github.com/deeprov/rovlink/simulator"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const updateInterval = 50 * time.Millisecond

var (
	configFile = flag.String("config", "rovlink.toml", "console configuration file")
	testMode   = flag.Bool("testmode", false, "run against an in-process simulated vehicle")
	verbose    = flag.Bool("verbose", false, "debug logging")
)

var axes = map[string]rovlink.ControlChannel{
	"pitch":        rovlink.ChannelPitch,
	"roll":         rovlink.ChannelRoll,
	"throttle":     rovlink.ChannelThrottle,
	"yaw":          rovlink.ChannelYaw,
	"forward":      rovlink.ChannelForward,
	"lateral":      rovlink.ChannelLateral,
	"pan-camera":   rovlink.ChannelPanCamera,
	"tilt-camera":  rovlink.ChannelTiltCamera,
	"lights-1":     rovlink.ChannelLights1,
	"lights-2":     rovlink.ChannelLights2,
	"video-switch": rovlink.ChannelVideoSwitch,
}

var relays = map[string]rovlink.Relay{
	"magnet":     rovlink.RelayMagnet,
	"pvc-front":  rovlink.RelayPVCFront,
	"pvc-back":   rovlink.RelayPVCBack,
	"claw-front": rovlink.RelayClawFront,
	"claw-back":  rovlink.RelayClawBack,
	"lights":     rovlink.RelayLights,
}

func main() {
	flag.Parse()

	config, err := loadConfigFile(*configFile)
	if err != nil {
		log.Fatal("unable to load configuration: ", err)
	}
	setupLogging(config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *testMode {
		box, err := simulator.NewRelayBox("127.0.0.1:0")
		if err != nil {
			log.Fatal("unable to start simulated relay board: ", err)
		}
		go box.Run(ctx)
		config.RelayHost = "127.0.0.1"
		config.RelayPort = box.Addr().Port

		ap, err := simulator.NewAutopilot(fmt.Sprintf("127.0.0.1:%d", config.TelemetryPort))
		if err != nil {
			log.Fatal("unable to start simulated autopilot: ", err)
		}
		go ap.Run(ctx)
		log.Info("test mode: simulated vehicle running")
	}

	link, err := mavlite.Listen(config.TelemetryPort)
	if err != nil {
		log.Fatal("unable to open telemetry link: ", err)
	}

	vehicle := rovlink.NewVehicleControl(link,
		relay.New(config.RelayHost, config.RelayPort),
		rovlink.Callbacks{
			Connected:    func() { log.Info("event: connected") },
			Disconnected: func() { log.Warn("event: disconnected") },
			Armed:        func() { log.Info("event: armed") },
			Disarmed:     func() { log.Info("event: disarmed") },
		})
	defer func() {
		if err := vehicle.Close(); err != nil {
			log.WithError(err).Warn("unable to close vehicle control")
		}
	}()

	lines := make(chan string)
	go readCommands(lines)

	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return
		case <-ticker.C:
			vehicle.Update()
		case line := <-lines:
			handleCommand(vehicle, line)
		}
	}
}

func setupLogging(config Config) {
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if *verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	if config.LogFile != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}))
	}
}

func readCommands(lines chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines <- line
		}
	}
}

// handleCommand is the headless stand-in for the operator GUI:
//
//	arm | disarm | stop
//	rc <axis> <value>        value in [-1, 1]
//	relay <name> on|off
//	status
func handleCommand(vehicle *rovlink.VehicleControl, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "arm":
		vehicle.Arm()
	case "disarm":
		vehicle.Disarm()
	case "stop":
		vehicle.StopThrusters()
	case "status":
		log.WithField("connected", vehicle.IsConnected()).
			WithField("armed", vehicle.IsArmed()).
			Info("vehicle status")
	case "rc":
		if len(fields) != 3 {
			log.Error("usage: rc <axis> <value>")
			return
		}
		axis, found := axes[fields[1]]
		if !found {
			log.Errorf("unknown axis: %s", fields[1])
			return
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			log.Errorf("bad axis value: %s", fields[2])
			return
		}
		if err := vehicle.SetRCInputs(map[rovlink.ControlChannel]float64{axis: value}); err != nil {
			log.WithError(err).Error("rc command rejected")
		}
	case "relay":
		if len(fields) != 3 || (fields[2] != "on" && fields[2] != "off") {
			log.Error("usage: relay <name> on|off")
			return
		}
		r, found := relays[fields[1]]
		if !found {
			log.Errorf("unknown relay: %s", fields[1])
			return
		}
		vehicle.SetRelay(r, fields[2] == "on")
	default:
		log.Errorf("unknown command: %s", fields[0])
	}
}
