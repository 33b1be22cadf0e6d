// Package terminal draws rasters into a tcell screen using half-block cells.
//
// Features:
//   - One cell carries two vertical pixels: '▀' with fg = upper, bg = lower
//   - True color (24-bit) and 256-color palette output
//   - Premultiplied pixels are composited over a fixed background
//   - Input events delivered on a channel from a crash-safe poller
//
// The screen is restored through core.OnCrash when a goroutine panics.
package terminal
