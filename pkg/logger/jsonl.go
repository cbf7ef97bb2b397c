// Package logger records decoded broadcast packets as JSON lines.
package logger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"um7go/pkg/protocol"
)

// JSONLWriter serializes one broadcast packet per line.
type JSONLWriter struct {
	enc *json.Encoder
}

type jsonRecord struct {
	TS         string `json:"ts"`
	Address    string `json:"addr"`
	Kind       string `json:"kind"`
	PayloadHex string `json:"payload_hex"`
	Data       any    `json:"data,omitempty"`
}

// NewJSONLWriter writes records to w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{enc: enc}
}

// Write records a single packet.
func (j *JSONLWriter) Write(pkt protocol.Broadcast) error {
	return j.enc.Encode(jsonRecord{
		TS:         pkt.Timestamp.UTC().Format(time.RFC3339Nano),
		Address:    fmt.Sprintf("0x%02x", pkt.Address),
		Kind:       pkt.Kind,
		PayloadHex: hex.EncodeToString(pkt.Payload),
		Data:       pkt.Data,
	})
}

// Consume drains a hub subscription until the context ends or the channel
// closes. Encode errors are dropped; a full disk must not stall the
// pipeline.
func (j *JSONLWriter) Consume(ctx context.Context, in <-chan protocol.Broadcast) {
	for {
		select {
		case <-ctx.Done():
			return
		case pkt, ok := <-in:
			if !ok {
				return
			}
			_ = j.Write(pkt)
		}
	}
}
