package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"um7go/pkg/protocol"
	"um7go/pkg/transport"
)

// runWatch shows a live orientation view: latest Euler angles, quaternion
// and sensor health, refreshed as broadcasts arrive.
func runWatch(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dev := addDeviceFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := dev.resolve()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log := newLogger(io.Discard, false)
	sess, err := dev.openSession(cfg, log)
	if err != nil {
		fmt.Fprintln(stderr, "open sensor:", err)
		return 1
	}
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	packets := make(chan protocol.Broadcast, 64)
	go func() {
		_ = sess.Broadcast(ctx, packets, transport.WithAddresses(
			protocol.AddrEuler,
			protocol.AddrQuat,
			protocol.AddrHealth,
		))
	}()

	p := tea.NewProgram(newWatchModel(cfg.Device.Port, *dev.mock), tea.WithOutput(stdout))
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case pkt := <-packets:
				p.Send(pkt)
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(stderr, "watch view failed:", err)
		return 1
	}
	return 0
}

type watchModel struct {
	source  string
	euler   protocol.Euler
	quat    protocol.Quaternion
	health  protocol.Health
	packets int
	haveE   bool
	haveQ   bool
	haveH   bool
}

func newWatchModel(port string, mock bool) watchModel {
	source := port
	if mock {
		source = "mock sensor"
	}
	return watchModel{source: source}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case protocol.Broadcast:
		m.packets++
		switch data := msg.Data.(type) {
		case protocol.Euler:
			m.euler = data
			m.haveE = true
		case protocol.EulerPose:
			m.euler = data.Euler
			m.haveE = true
		case protocol.Quaternion:
			m.quat = data
			m.haveQ = true
		case protocol.Health:
			m.health = data
			m.haveH = true
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "um7d watch  %s  (%d packets, q to quit)\n\n", m.source, m.packets)

	if m.haveE {
		fmt.Fprintf(&b, "  euler       roll %8.2f°  pitch %8.2f°  yaw %8.2f°\n",
			m.euler.Roll, m.euler.Pitch, m.euler.Yaw)
		fmt.Fprintf(&b, "  rates       roll %8.2f   pitch %8.2f   yaw %8.2f  °/s\n",
			m.euler.RollRate, m.euler.PitchRate, m.euler.YawRate)
	} else {
		b.WriteString("  euler       waiting for data\n")
	}

	if m.haveQ {
		fmt.Fprintf(&b, "  quaternion  w %7.4f  x %7.4f  y %7.4f  z %7.4f\n",
			m.quat.W, m.quat.X, m.quat.Y, m.quat.Z)
	} else {
		b.WriteString("  quaternion  waiting for data\n")
	}

	if m.haveH {
		fmt.Fprintf(&b, "  health      0x%08x", m.health.Raw)
		var faults []string
		if m.health.GyroFault() {
			faults = append(faults, "gyro")
		}
		if m.health.AccelFault() {
			faults = append(faults, "accel")
		}
		if m.health.MagFault() {
			faults = append(faults, "mag")
		}
		if m.health.GPSFault() {
			faults = append(faults, "gps")
		}
		if m.health.Overflow() {
			faults = append(faults, "overflow")
		}
		if len(faults) > 0 {
			fmt.Fprintf(&b, "  FAULT: %s", strings.Join(faults, ","))
		} else {
			b.WriteString("  ok")
		}
		b.WriteString("\n")
	} else {
		b.WriteString("  health      waiting for data\n")
	}

	return b.String()
}
