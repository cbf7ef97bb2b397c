// Command um7d talks to a UM7 orientation sensor over a serial port: it
// streams broadcast packets to JSONL, WebSocket and MQTT sinks, and offers
// one-shot register access from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"um7go/pkg/bridge/mqtt"
	"um7go/pkg/bridge/ws"
	"um7go/pkg/config"
	"um7go/pkg/engine"
	"um7go/pkg/logger"
	"um7go/pkg/protocol"
	"um7go/pkg/register"
	"um7go/pkg/serial"
	"um7go/pkg/transport"
)

const mockBroadcastInterval = 20 * time.Millisecond

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		return runServe([]string{}, stdout, stderr)
	}

	switch args[0] {
	case "serve":
		return runServe(args[1:], stdout, stderr)
	case "read":
		return runRead(args[1:], stdout, stderr)
	case "write":
		return runWrite(args[1:], stdout, stderr)
	case "cmd":
		return runCommand(args[1:], stdout, stderr)
	case "watch":
		return runWatch(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintln(stderr, "unknown command:", args[0])
		printUsage(stderr)
		return 2
	}
}

// deviceFlags are the connection flags shared by every subcommand. Flag
// values override the config file only when explicitly set.
type deviceFlags struct {
	configPath *string
	port       *string
	baud       *int
	timeout    *time.Duration
	mock       *bool
	verbose    *bool
}

func addDeviceFlags(fs *flag.FlagSet) *deviceFlags {
	return &deviceFlags{
		configPath: fs.String("config", "", "config file (default: um7d.toml if present)"),
		port:       fs.String("port", "", "serial device path"),
		baud:       fs.Int("baud", 0, "baud rate"),
		timeout:    fs.Duration("timeout", 0, "register transaction timeout"),
		mock:       fs.Bool("mock", false, "use a simulated sensor instead of a serial port"),
		verbose:    fs.Bool("verbose", false, "enable debug logging"),
	}
}

func (d *deviceFlags) resolve() (config.Config, error) {
	cfg, _, err := config.LoadOrDefault(*d.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if *d.port != "" {
		cfg.Device.Port = *d.port
	}
	if *d.baud > 0 {
		cfg.Device.Baud = *d.baud
	}
	if *d.timeout > 0 {
		cfg.Device.TimeoutMS = int(d.timeout.Milliseconds())
	}
	return cfg, nil
}

func (d *deviceFlags) openSession(cfg config.Config, log zerolog.Logger) (*transport.Session, error) {
	var port io.ReadWriteCloser
	if *d.mock {
		port = newMockSensor(mockBroadcastInterval)
	} else {
		p, err := serial.Open(cfg.Device.Port, serial.WithBaudRate(cfg.Device.Baud))
		if err != nil {
			return nil, err
		}
		port = p
	}
	return transport.NewSession(port,
		transport.WithTimeout(cfg.Device.Timeout()),
		transport.WithLogger(log),
	), nil
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func runServe(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dev := addDeviceFlags(fs)

	logPath := fs.String("log", "", "JSONL output path (default: stdout)")
	wsAddr := fs.String("ws-addr", "", "WebSocket bridge listen address")
	mqttURL := fs.String("mqtt-url", "", "MQTT broker URL (tcp://host:port)")
	mqttTopic := fs.String("mqtt-topic", "", "MQTT topic prefix")
	filter := fs.String("filter", "", "comma-separated packet kinds to keep")
	maxPackets := fs.Int("max", 0, "stop after this many packets (0 = run forever)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := dev.resolve()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *logPath != "" {
		cfg.Serve.JSONLPath = *logPath
	}
	if *wsAddr != "" {
		cfg.Serve.WSAddr = *wsAddr
	}
	if *mqttURL != "" {
		cfg.Serve.MQTTURL = *mqttURL
	}
	if *mqttTopic != "" {
		cfg.Serve.MQTTTopic = *mqttTopic
	}

	log := newLogger(stderr, *dev.verbose)

	sess, err := dev.openSession(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("open sensor")
		return 1
	}
	defer sess.Close()

	var out io.Writer = stdout
	if cfg.Serve.JSONLPath != "" {
		file, err := os.Create(cfg.Serve.JSONLPath)
		if err != nil {
			log.Error().Err(err).Msg("open jsonl file")
			return 1
		}
		defer file.Close()
		out = file
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hub := engine.NewHub()
	go hub.Run(ctx)

	logWriter := logger.NewJSONLWriter(out)
	go logWriter.Consume(ctx, hub.Subscribe())

	if cfg.Serve.WSAddr != "" {
		srv := ws.NewServer(hub, ws.WithLogger(log))
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Serve.WSAddr); err != nil {
				log.Error().Err(err).Msg("websocket bridge stopped")
			}
		}()
		log.Info().Str("addr", cfg.Serve.WSAddr).Msg("websocket bridge listening")
	}

	if cfg.Serve.MQTTURL != "" {
		pub, err := mqtt.NewPublisher(cfg.Serve.MQTTURL, cfg.Serve.MQTTTopic, mqtt.WithLogger(log))
		if err != nil {
			log.Error().Err(err).Msg("connect mqtt broker")
			return 1
		}
		defer pub.Close()
		go pub.Consume(ctx, hub.Subscribe())
		log.Info().Str("broker", cfg.Serve.MQTTURL).Msg("mqtt bridge connected")
	}

	keep := kindSet(*filter)

	packets := make(chan protocol.Broadcast, 64)
	done := make(chan error, 1)
	go func() {
		done <- sess.Broadcast(ctx, packets, transport.WithMaxPackets(*maxPackets))
	}()

	log.Info().Str("port", cfg.Device.Port).Bool("mock", *dev.mock).Msg("streaming broadcasts")
	for {
		select {
		case <-ctx.Done():
			return 0
		case pkt := <-packets:
			if keep != nil {
				if _, ok := keep[pkt.Kind]; !ok {
					continue
				}
			}
			hub.Publish(pkt)
		case err := <-done:
			drainPackets(packets, hub, keep)
			if err == nil || errors.Is(err, context.Canceled) {
				return 0
			}
			log.Error().Err(err).Msg("broadcast stream ended")
			return 1
		}
	}
}

func kindSet(filter string) map[string]struct{} {
	if filter == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, k := range strings.Split(filter, ",") {
		if k = strings.TrimSpace(k); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// drainPackets flushes what the iterator delivered before it returned, so a
// --max run logs exactly the packets it counted.
func drainPackets(packets <-chan protocol.Broadcast, hub *engine.Hub, keep map[string]struct{}) {
	for {
		select {
		case pkt := <-packets:
			if keep != nil {
				if _, ok := keep[pkt.Kind]; !ok {
					continue
				}
			}
			hub.Publish(pkt)
		default:
			// Give the hub a dispatch cycle before the process exits.
			time.Sleep(50 * time.Millisecond)
			return
		}
	}
}

func runRead(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dev := addDeviceFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: um7d read [flags] <register|0xNN>")
		return 2
	}
	target := fs.Arg(0)

	return withSession(dev, stderr, func(ctx context.Context, sess *transport.Session) int {
		v, err := readTarget(ctx, sess, target)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "%s = %s\n", v.Reg.Name, formatValue(v))
		for _, f := range v.Reg.Fields {
			raw, _ := v.Field(f.Name)
			fmt.Fprintf(stdout, "  %-24s %d\n", f.Name, raw)
		}
		return 0
	})
}

func runWrite(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("write", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dev := addDeviceFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "usage: um7d write [flags] <register|0xNN> <value>")
		return 2
	}
	target, value := fs.Arg(0), fs.Arg(1)

	payload, err := parseValue(value)
	if err != nil {
		fmt.Fprintln(stderr, "invalid value:", err)
		return 2
	}

	return withSession(dev, stderr, func(ctx context.Context, sess *transport.Session) int {
		if err := writeTarget(ctx, sess, target, payload); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "%s <- %s\n", target, value)
		return 0
	})
}

func runCommand(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("cmd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dev := addDeviceFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: um7d cmd [flags] <command>")
		return 2
	}
	name := fs.Arg(0)

	return withSession(dev, stderr, func(ctx context.Context, sess *transport.Session) int {
		acc := transport.NewAccessor(sess)
		v, err := acc.Command(ctx, name)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "%s ok: %s\n", v.Reg.Name, formatValue(v))
		return 0
	})
}

// withSession opens the configured transport, runs fn and tears down.
func withSession(dev *deviceFlags, stderr io.Writer, fn func(context.Context, *transport.Session) int) int {
	cfg, err := dev.resolve()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log := newLogger(stderr, *dev.verbose)
	sess, err := dev.openSession(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("open sensor")
		return 1
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return fn(ctx, sess)
}

// readTarget accepts a register name or a bare wire address.
func readTarget(ctx context.Context, sess *transport.Session, target string) (register.Value, error) {
	if addr, ok := parseAddress(target); ok {
		return sess.ReadRegister(ctx, addr)
	}
	return transport.NewAccessor(sess).Read(ctx, target)
}

func writeTarget(ctx context.Context, sess *transport.Session, target string, payload []byte) error {
	if addr, ok := parseAddress(target); ok {
		return sess.WriteRegister(ctx, addr, payload)
	}
	reg, ok := register.LookupByName(target)
	if !ok {
		return fmt.Errorf("%w: %s", transport.ErrUnknownRegister, target)
	}
	if !reg.Writable() {
		return fmt.Errorf("%w: %s", transport.ErrNotWritable, reg.Name)
	}
	return sess.Write(ctx, reg, payload)
}

func parseAddress(s string) (uint8, bool) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

// parseValue encodes a register value from the command line. A decimal point
// selects float encoding; anything else parses as an integer (0x prefix ok).
func parseValue(s string) ([]byte, error) {
	if strings.ContainsAny(s, ".eE") && !strings.HasPrefix(s, "0x") {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, err
		}
		return register.EncodeFloat32(float32(f)), nil
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return nil, err
	}
	return register.EncodeUint32(uint32(n)), nil
}

func formatValue(v register.Value) string {
	switch v.Reg.Interp {
	case register.Float32:
		return fmt.Sprintf("%g", v.Float32())
	case register.Int16Pair:
		a, b := v.Int16Pair()
		return fmt.Sprintf("[%d %d]", a, b)
	case register.Bytes4:
		if isPrintable(v.Raw) {
			return fmt.Sprintf("%q", string(v.Raw))
		}
		return fmt.Sprintf("0x%08x", v.Uint32())
	default:
		return fmt.Sprintf("%d (0x%08x)", v.Uint32(), v.Uint32())
	}
}

func isPrintable(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  um7d serve [--port /dev/ttyUSB0] [--baud 115200] [--log file.jsonl] [--ws-addr :8787] [--mqtt-url tcp://host:1883] [--filter euler,health] [--max N] [--mock]")
	fmt.Fprintln(w, "  um7d read  <register|0xNN>")
	fmt.Fprintln(w, "  um7d write <register|0xNN> <value>")
	fmt.Fprintln(w, "  um7d cmd   <command>")
	fmt.Fprintln(w, "  um7d watch [--mock]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve   stream broadcast packets to JSONL, WebSocket and MQTT sinks")
	fmt.Fprintln(w, "  read    read one register by name or wire address")
	fmt.Fprintln(w, "  write   write one register by name or wire address")
	fmt.Fprintln(w, "  cmd     trigger a command register (ZERO_GYROS, RESET_EKF, ...)")
	fmt.Fprintln(w, "  watch   live orientation view in the terminal")
}
