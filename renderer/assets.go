package renderer

import (
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metamorphosis/config"
	"github.com/pthm-cable/metamorphosis/systems"
)

// Sprite is an optional texture. A sprite that failed to load is painted
// with its vector fallback.
type Sprite struct {
	Texture rl.Texture2D
	Loaded  bool
}

// Width returns the texture width in pixels.
func (s Sprite) Width() float32 { return float32(s.Texture.Width) }

// Height returns the texture height in pixels.
func (s Sprite) Height() float32 { return float32(s.Texture.Height) }

// Assets holds every sprite the painter uses.
type Assets struct {
	Branch    Sprite
	Cocoon    Sprite
	Cracked   Sprite
	Open      Sprite
	Butterfly Sprite
}

// LoadAssets loads sprites from rc.AssetsDir. Must be called after the
// raylib window exists. Missing or unreadable files are logged and left
// unloaded.
func LoadAssets(rc config.RenderConfig) *Assets {
	return &Assets{
		Branch:    loadSprite(rc.AssetsDir, rc.BranchImage),
		Cocoon:    loadSprite(rc.AssetsDir, rc.CocoonImage),
		Cracked:   loadSprite(rc.AssetsDir, rc.CrackedImage),
		Open:      loadSprite(rc.AssetsDir, rc.OpenImage),
		Butterfly: loadSprite(rc.AssetsDir, rc.ButterflyImage),
	}
}

func loadSprite(dir, name string) Sprite {
	if name == "" {
		return Sprite{}
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		slog.Info("asset missing, using fallback shape", "path", path)
		return Sprite{}
	}

	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		slog.Info("asset failed to load, using fallback shape", "path", path)
		return Sprite{}
	}
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	return Sprite{Texture: tex, Loaded: true}
}

// CocoonSprite returns the sprite for a cocoon state.
func (a *Assets) CocoonSprite(state systems.CocoonState) Sprite {
	switch state {
	case systems.CocoonCracked:
		return a.Cracked
	case systems.CocoonOpen:
		return a.Open
	}
	return a.Cocoon
}

// Unload frees all loaded textures.
func (a *Assets) Unload() {
	for _, s := range []*Sprite{&a.Branch, &a.Cocoon, &a.Cracked, &a.Open, &a.Butterfly} {
		if s.Loaded {
			rl.UnloadTexture(s.Texture)
			s.Loaded = false
		}
	}
}
