package lss

import (
	"context"
	"fmt"
)

// Broadcast addresses every servo on the bus at once. Broadcast frames
// produce no replies, so each operation returns as soon as its frame is
// written.
type Broadcast struct {
	bus *Bus
}

// NewBroadcast creates the broadcast facade for a bus.
func NewBroadcast(bus *Bus) *Broadcast {
	return &Broadcast{bus: bus}
}

// MoveAllTo commands every servo to the given position in degrees.
func (g *Broadcast) MoveAllTo(ctx context.Context, degrees float64) error {
	_, err := g.bus.Submit(ctx, SetValue(BroadcastAddr, ActMove, tenths(degrees)), 0)
	return err
}

// LimpAll releases every motor.
func (g *Broadcast) LimpAll(ctx context.Context) error {
	_, err := g.bus.Submit(ctx, Fire(BroadcastAddr, ActLimp), 0)
	return err
}

// HoldAll stops every motor and holds position.
func (g *Broadcast) HoldAll(ctx context.Context) error {
	_, err := g.bus.Submit(ctx, Fire(BroadcastAddr, ActHold), 0)
	return err
}

// SetAllLEDColor sets every status LED to the same color.
func (g *Broadcast) SetAllLEDColor(ctx context.Context, color LedColor) error {
	if color < LedOff || color > LedWhite {
		return fmt.Errorf("invalid LED color: %d", color)
	}
	_, err := g.bus.Submit(ctx, SetValue(BroadcastAddr, ActLEDColor, int32(color)), 0)
	return err
}

// ResetAll reboots every servo on the bus.
func (g *Broadcast) ResetAll(ctx context.Context) error {
	_, err := g.bus.Submit(ctx, Fire(BroadcastAddr, ActReset), 0)
	return err
}
