package game

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"chosenoffset.com/lightcaster/internal/core/geom"
	"chosenoffset.com/lightcaster/internal/core/shadows"
	"chosenoffset.com/lightcaster/internal/render"
	"chosenoffset.com/lightcaster/internal/world/scene"
)

// Game is the interactive view of one built scene.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	World        *scene.World
	Camera       Camera
	Renderer     render.Renderer
	InputMgr     render.InputManager

	// UI state
	Paused   bool
	Debug    bool
	Messages []Message

	marker   render.Image // facing arrow drawn at every light
	whiteImg render.Image

	lastFrame    time.Time
	lastFPSCheck time.Time
	fps          float64

	// Debug
	FrameCount int
}

// NewGame creates a viewer for w and computes the initial light polygons.
func NewGame(w *scene.World, r render.Renderer, input render.InputManager, width, height int) *Game {
	g := &Game{
		ScreenWidth:  width,
		ScreenHeight: height,
		World:        w,
		Renderer:     r,
		InputMgr:     input,
	}
	g.UpdateCamera()
	if err := g.World.Lighting.Update(context.Background(), g.World.Obstacles); err != nil {
		log.Printf("Initial lighting update failed: %v", err)
	}
	return g
}

// Update handles input and recomputes lighting.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0
	g.updateMessages(dt)

	if g.InputMgr.IsKeyJustPressed(render.KeyX) {
		g.Paused = !g.Paused
		if g.Paused {
			g.ShowMessage("Paused")
		} else {
			g.ShowMessage("Resumed")
		}
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyZ) {
		g.Debug = !g.Debug
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyTab) {
		if l := g.World.Lighting.CycleActive(); l != nil {
			g.ShowMessage(fmt.Sprintf("Controlling %s", l.Name))
		}
	}

	if g.Paused {
		return nil
	}

	if l := g.World.Lighting.Active(); l != nil {
		g.steer(l.Caster)
	}

	if err := g.World.Lighting.Update(context.Background(), g.World.Obstacles); err != nil {
		return fmt.Errorf("update lighting: %w", err)
	}
	return nil
}

// steer applies movement, facing, radius and field of view controls to c.
func (g *Game) steer(c *shadows.Caster) {
	var delta geom.Vec2
	if g.InputMgr.IsKeyPressed(render.KeyW) || g.InputMgr.IsKeyPressed(render.KeyUp) {
		delta = delta.AddXY(0, -moveSpeed)
	} else if g.InputMgr.IsKeyPressed(render.KeyS) || g.InputMgr.IsKeyPressed(render.KeyDown) {
		delta = delta.AddXY(0, moveSpeed)
	}
	if g.InputMgr.IsKeyPressed(render.KeyA) || g.InputMgr.IsKeyPressed(render.KeyLeft) {
		delta = delta.AddXY(-moveSpeed, 0)
	} else if g.InputMgr.IsKeyPressed(render.KeyD) || g.InputMgr.IsKeyPressed(render.KeyRight) {
		delta = delta.AddXY(moveSpeed, 0)
	}
	if !delta.IsZero() {
		c.Move(delta)
		g.clampToWorld(c)
	}

	cx, cy := g.InputMgr.GetCursorPosition()
	c.FaceTowards(g.Camera.ToWorld(cx, cy))

	radius := c.Radius()
	if g.InputMgr.IsKeyPressed(render.KeyMinus) {
		radius /= radiusScale
	}
	if g.InputMgr.IsKeyPressed(render.KeyEqual) {
		radius *= radiusScale
	}
	if err := c.SetRadius(math.Max(minRadius, math.Min(maxRadius, radius))); err != nil {
		log.Printf("Failed to set radius: %v", err)
	}

	fov := c.FOV()
	if g.InputMgr.IsKeyPressed(render.KeyBracketLeft) {
		fov -= fovStep
	}
	if g.InputMgr.IsKeyPressed(render.KeyBracketRight) {
		fov += fovStep
	}
	if err := c.SetFOV(math.Max(0, fov)); err != nil {
		log.Printf("Failed to set fov: %v", err)
	}
}

// clampToWorld keeps the light inside the scene bounds.
func (g *Game) clampToWorld(c *shadows.Caster) {
	p := c.Position()
	p.X = math.Max(0, math.Min(g.World.Width, p.X))
	p.Y = math.Max(0, math.Min(g.World.Height, p.Y))
	c.SetPosition(p)
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

// UpdateCamera refits the world to the current screen size.
func (g *Game) UpdateCamera() {
	g.Camera = FitCamera(g.World.Width, g.World.Height, g.ScreenWidth, g.ScreenHeight)
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})

	log.Printf("Message: %s", text)
}

// tickFPS samples the frame rate at most every 250ms.
func (g *Game) tickFPS(now time.Time) {
	if !g.lastFrame.IsZero() && now.Sub(g.lastFPSCheck) > 250*time.Millisecond {
		if frame := now.Sub(g.lastFrame); frame > 0 {
			g.fps = float64(time.Second) / float64(frame)
		}
		g.lastFPSCheck = now
	}
	g.lastFrame = now
}
