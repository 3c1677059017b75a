package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/lightcaster/internal/core/shadows"
	"chosenoffset.com/lightcaster/internal/render/term"
	"chosenoffset.com/lightcaster/internal/world/scene"
)

func termCmd() *cobra.Command {
	var logPath string

	cmd := &cobra.Command{
		Use:   "term [scene-file]",
		Short: "View a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runTerm(sceneArg(args), logPath)
		},
	}

	cmd.Flags().StringVar(&logPath, "log", "", "write log output to this file instead of discarding it")
	return cmd
}

func runTerm(path, logPath string) error {
	s, err := loadScene(path)
	if err != nil {
		return err
	}
	w, err := s.Build()
	if err != nil {
		return err
	}

	// The terminal owns stdout and stderr while the viewer runs.
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("Viewing %s in the terminal", w.Name)
	return term.NewViewer(screen, w).Run(ctx)
}

// castOutput is the headless result of casting every light in a scene.
type castOutput struct {
	Scene  string      `json:"scene" yaml:"scene"`
	Lights []castLight `json:"lights" yaml:"lights"`
}

type castLight struct {
	Name     string      `json:"name" yaml:"name"`
	Position scene.Vec   `json:"position" yaml:"position"`
	Radius   float64     `json:"radius" yaml:"radius"`
	Heading  float64     `json:"heading" yaml:"heading"` // degrees
	FOV      float64     `json:"fov" yaml:"fov"`         // degrees
	Area     float64     `json:"area" yaml:"area"`
	Polygon  []scene.Vec `json:"polygon" yaml:"polygon"`
	Hits     []castHit   `json:"hits,omitempty" yaml:"hits,omitempty"`
}

type castHit struct {
	Point scene.Vec `json:"point" yaml:"point"`
	Hit   bool      `json:"hit" yaml:"hit"`
	Kind  string    `json:"kind" yaml:"kind"`
}

func castCmd() *cobra.Command {
	var format string
	var hits bool

	cmd := &cobra.Command{
		Use:   "cast [scene-file]",
		Short: "Compute every light polygon and print them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := runCast(sceneArg(args), hits)
			if err != nil {
				return err
			}
			return writeCast(c.OutOrStdout(), out, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&hits, "hits", false, "include the raw ray results")
	return cmd
}

func runCast(path string, withHits bool) (*castOutput, error) {
	s, err := loadScene(path)
	if err != nil {
		return nil, err
	}
	w, err := s.Build()
	if err != nil {
		return nil, err
	}
	if err := w.Lighting.Update(context.Background(), w.Obstacles); err != nil {
		return nil, err
	}

	out := &castOutput{Scene: w.Name}
	for _, l := range w.Lighting.Lights() {
		c := l.Caster
		cl := castLight{
			Name:     l.Name,
			Position: toVec(c.Position()),
			Radius:   c.Radius(),
			Heading:  degrees(c.Heading()),
			FOV:      degrees(c.FOV()),
			Area:     shadows.PolygonArea(l.Fan()),
		}
		for _, p := range l.Polygon() {
			cl.Polygon = append(cl.Polygon, toVec(p))
		}
		if withHits {
			for _, h := range l.Hits() {
				cl.Hits = append(cl.Hits, castHit{Point: toVec(h.Point), Hit: h.Hit, Kind: h.Kind.String()})
			}
		}
		out.Lights = append(out.Lights, cl)
	}
	return out, nil
}

func writeCast(w io.Writer, out *castOutput, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scene-file>",
		Short: "Check a scene file without opening a viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			w, err := s.Build()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(c.OutOrStdout(), "%s: ok (%d lights, %d obstacles)\n",
				w.Name, len(w.Lighting.Lights()), len(w.Obstacles))
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "List the scene files in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			dir := "scenes"
			if len(args) == 1 {
				dir = args[0]
			}
			entries, err := scene.Scan(dir)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(c.OutOrStdout(), "%-20s %2d lights %3d obstacles  %s\n",
					e.Name, e.Lights, e.Obstacles, e.Path)
			}
			return nil
		},
	}
}

func toVec(p shadows.Point) scene.Vec {
	return scene.Vec{X: p.X, Y: p.Y}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
