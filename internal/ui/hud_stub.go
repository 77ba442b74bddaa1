//go:build !ebiten

package ui

import (
	"mad-sand/internal/core"
	"mad-sand/pkg/material"
)

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(core.Sim, int, []core.Brush) *HUD { return nil }

// SetStatus is a no-op in the headless build.
func (h *HUD) SetStatus(string) {}

// SetBrush is a no-op in the headless build.
func (h *HUD) SetBrush(material.ID) {}

// Update reports no palette pick in the headless build.
func (h *HUD) Update(int) (material.ID, bool) { return 0, false }

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
