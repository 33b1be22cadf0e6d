package stream

import (
	"encoding/json"
	"fmt"

	"github.com/lixenwraith/ember/spark"
)

// Control operations accepted from clients
const (
	OpStart     = "start"
	OpStop      = "stop"
	OpIntensity = "intensity"
	OpWind      = "wind"
	OpBurst     = "burst"
	OpVortex    = "vortex"
)

// Command is a client control message, Value is read by intensity and wind
type Command struct {
	Op    string  `json:"op"`
	Value float64 `json:"value"`
}

// ParseCommand decodes a text frame
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	if !cmd.Known() {
		return Command{}, fmt.Errorf("unknown op %q", cmd.Op)
	}
	return cmd, nil
}

// Known reports whether Op names a supported operation
func (c Command) Known() bool {
	switch c.Op {
	case OpStart, OpStop, OpIntensity, OpWind, OpBurst, OpVortex:
		return true
	}
	return false
}

// Apply runs the command against e, must be called on the goroutine that ticks e
func (c Command) Apply(e *spark.Engine) error {
	switch c.Op {
	case OpStart:
		e.Start()
	case OpStop:
		e.Stop()
	case OpIntensity:
		e.SetIntensity(c.Value)
	case OpWind:
		e.SetWindStrength(c.Value)
	case OpBurst:
		e.TriggerBurst()
	case OpVortex:
		e.TriggerVortex()
	default:
		return fmt.Errorf("unknown op %q", c.Op)
	}
	return nil
}
