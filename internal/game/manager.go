package game

import (
	"fmt"
	"log"

	"chosenoffset.com/lightcaster/internal/render"
	"chosenoffset.com/lightcaster/internal/world/scene"
)

// Manager owns the scene list and the viewer for the current scene.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	Game         *Game
	Renderer     render.Renderer
	InputMgr     render.InputManager

	// Scene file paths. Empty means the built-in demo scene.
	Scenes  []string
	current int
}

// NewManager creates a new viewer manager.
func NewManager(r render.Renderer, input render.InputManager, width, height int, scenes []string) *Manager {
	return &Manager{
		ScreenWidth:  width,
		ScreenHeight: height,
		Renderer:     r,
		InputMgr:     input,
		Scenes:       scenes,
	}
}

// Current returns the index of the loaded scene.
func (m *Manager) Current() int {
	return m.current
}

// Update handles scene switching and delegates to the viewer.
func (m *Manager) Update() error {
	if m.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrQuit
	}

	if m.InputMgr.IsKeyJustPressed(render.KeyN) && len(m.Scenes) > 1 {
		if err := m.LoadScene((m.current + 1) % len(m.Scenes)); err != nil {
			log.Printf("Failed to load scene: %v", err)
			if m.Game != nil {
				m.Game.ShowMessage("Scene failed to load, see log")
			}
		}
	}
	if m.InputMgr.IsKeyJustPressed(render.KeyR) {
		if err := m.LoadScene(m.current); err != nil {
			log.Printf("Failed to reload scene: %v", err)
			if m.Game != nil {
				m.Game.ShowMessage("Reload failed, see log")
			}
		}
	}

	if m.Game == nil {
		return nil
	}
	return m.Game.Update()
}

// Draw draws the current viewer.
func (m *Manager) Draw(screen render.Image) {
	if m.Game != nil {
		m.Game.Draw(screen)
	}
}

// Layout returns the screen dimensions.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != m.ScreenWidth || outsideHeight != m.ScreenHeight {
		m.ScreenWidth = outsideWidth
		m.ScreenHeight = outsideHeight
		if m.Game != nil {
			m.Game.ScreenWidth = outsideWidth
			m.Game.ScreenHeight = outsideHeight
			m.Game.UpdateCamera()
		}
	}
	return outsideWidth, outsideHeight
}

// LoadScene builds scene i and replaces the viewer. On error the current
// viewer is left untouched.
func (m *Manager) LoadScene(i int) error {
	var (
		s   *scene.Scene
		err error
	)
	if len(m.Scenes) == 0 {
		s = scene.DefaultScene()
	} else {
		if i < 0 || i >= len(m.Scenes) {
			return fmt.Errorf("scene index %d out of range [0, %d)", i, len(m.Scenes))
		}
		log.Printf("Loading scene: %s", m.Scenes[i])
		if s, err = scene.Load(m.Scenes[i]); err != nil {
			return err
		}
	}

	w, err := s.Build()
	if err != nil {
		return fmt.Errorf("build scene %s: %w", s.Name, err)
	}

	prev := m.Game
	m.Game = NewGame(w, m.Renderer, m.InputMgr, m.ScreenWidth, m.ScreenHeight)
	m.current = i
	if prev != nil {
		m.Game.Debug = prev.Debug
		m.Game.marker = prev.marker
		m.Game.whiteImg = prev.whiteImg
	}
	m.Game.ShowMessage(fmt.Sprintf("Scene: %s (%d lights, %d obstacles)",
		w.Name, len(w.Lighting.Lights()), len(w.Obstacles)))
	return nil
}
