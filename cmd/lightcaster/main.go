package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"chosenoffset.com/lightcaster/internal/game"
	ebitenrender "chosenoffset.com/lightcaster/internal/render/ebiten"
	"chosenoffset.com/lightcaster/internal/world/scene"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lightcaster",
		Short: "2D visibility and light polygon caster",
	}

	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(termCmd())
	rootCmd.AddCommand(castCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func viewCmd() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "view [scene-file-or-dir]",
		Short: "Open the interactive viewer (built-in demo when no scene is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var scenes []string
			if len(args) == 1 {
				var err error
				if scenes, err = resolveScenes(args[0]); err != nil {
					return err
				}
			}
			return runView(scenes, width, height)
		},
	}

	cmd.Flags().IntVar(&width, "width", 1280, "window width")
	cmd.Flags().IntVar(&height, "height", 800, "window height")
	return cmd
}

func runView(scenes []string, screenWidth, screenHeight int) error {
	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	manager := game.NewManager(renderer, inputMgr, screenWidth, screenHeight, scenes)
	if err := manager.LoadScene(0); err != nil {
		return err
	}

	// Set up the window
	engine.SetWindowSize(screenWidth, screenHeight)
	engine.SetWindowTitle("Lightcaster")
	engine.SetWindowResizable(true)

	log.Println("Starting viewer...")
	return engine.RunGame(manager)
}

// resolveScenes expands a path into scene files: a file is used as is, a
// directory contributes every scene Scan finds in it.
func resolveScenes(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := scene.Scan(path)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no scenes found in %s", path)
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths, nil
}

// loadScene loads a scene file, or the built-in demo for an empty path.
func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.DefaultScene(), nil
	}
	return scene.Load(path)
}

func sceneArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
