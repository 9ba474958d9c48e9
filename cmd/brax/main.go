package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/MinRegret/brax"
	"github.com/MinRegret/brax/tui"
	"github.com/MinRegret/brax/viewer"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	steps     int
	trackBody string
	addr      string
	fps       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "brax",
		Short: "articulated rigid body simulator",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [scene.yaml]",
		Short: "compile a scene file and print its bodies",
		Args:  cobra.ExactArgs(1),
		RunE:  validateScene,
	}

	runCmd := &cobra.Command{
		Use:   "run [scene.yaml]",
		Short: "step a scene and print one body's trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().IntVar(&steps, "steps", 100, "macro steps to simulate")
	runCmd.Flags().StringVar(&trackBody, "body", "", "body to track (default: first body)")

	liveCmd := &cobra.Command{
		Use:   "live [scene.yaml]",
		Short: "watch a scene in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  liveScene,
	}
	liveCmd.Flags().StringVar(&trackBody, "body", "", "body to track (default: first body)")

	serveCmd := &cobra.Command{
		Use:   "serve [scene.yaml]",
		Short: "stream frames to websocket clients",
		Args:  cobra.ExactArgs(1),
		RunE:  serveScene,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&fps, "fps", 30, "frames per second")

	rootCmd.AddCommand(validateCmd, runCmd, liveCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadSystem(path string) (*brax.System, error) {
	cfg, err := brax.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return brax.NewSystem(cfg)
}

func resolveBody(sys *brax.System, name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	i, ok := sys.BodyIndex(name)
	if !ok {
		return 0, fmt.Errorf("unknown body %q", name)
	}
	return i, nil
}

func validateScene(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: ok (dt %gs, %d action dof)\n\n", args[0], sys.Dt(), sys.ActionSize())

	qp := sys.DefaultQP()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tBODY\tSPAWN")
	for i := 0; i < sys.NumBodies(); i++ {
		p := qp.Pos[i]
		fmt.Fprintf(w, "%d\t%s\t(%g, %g, %g)\n", i, sys.BodyName(i), p.X(), p.Y(), p.Z())
	}
	return w.Flush()
}

func runScene(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem(args[0])
	if err != nil {
		return err
	}
	track, err := resolveBody(sys, trackBody)
	if err != nil {
		return err
	}

	qp := sys.DefaultQP()
	action := make([]float64, sys.ActionSize())
	heights := []float64{qp.Pos[track].Z()}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTIME\tX\tY\tZ\tPENETRATION")
	for i := 1; i <= steps; i++ {
		next, info, err := sys.Step(qp, action)
		if err != nil {
			return err
		}
		qp = next
		p := qp.Pos[track]
		heights = append(heights, p.Z())
		fmt.Fprintf(w, "%d\t%.3fs\t%.4f\t%.4f\t%.4f\t%.2e\n",
			i, float64(i)*sys.Dt(), p.X(), p.Y(), p.Z(), info.Penetration)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	graph := asciigraph.Plot(heights,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(sys.BodyName(track)+" height"),
	)
	fmt.Println(graph)

	return nil
}

func liveScene(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem(args[0])
	if err != nil {
		return err
	}
	if _, err := resolveBody(sys, trackBody); err != nil {
		return err
	}
	return tui.Run(sys, args[0], trackBody)
}

func serveScene(cmd *cobra.Command, args []string) error {
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	sys, err := loadSystem(args[0])
	if err != nil {
		return err
	}

	srv := viewer.NewServer(sys, time.Second/time.Duration(fps))
	go func() {
		if err := srv.Run(context.Background()); err != nil {
			log.Printf("viewer stopped: %v", err)
		}
	}()

	http.Handle("/ws", srv)
	log.Printf("streaming %s on %s/ws", args[0], addr)
	return http.ListenAndServe(addr, nil)
}
