package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"git.c3pb.de/farhaven/solarsystem/control"
	"git.c3pb.de/farhaven/solarsystem/orrery"
	"git.c3pb.de/farhaven/solarsystem/scene"
	"git.c3pb.de/farhaven/solarsystem/ui"
)

type options struct {
	width, height int
	assets        string
	font          string
	listen        string
	fullscreen    bool
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "solarsystem",
		Short: "Animated 3D model of the solar system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.IntVar(&opts.width, "width", 1024, "initial window width")
	f.IntVar(&opts.height, "height", 768, "initial window height")
	f.StringVar(&opts.assets, "assets", "./img", "directory holding the textures")
	f.StringVar(&opts.font, "font", "", "TrueType font for the overlay, the built-in Go font if empty")
	f.StringVar(&opts.listen, "listen", "", "address for the remote control server, disabled if empty")
	f.BoolVar(&opts.fullscreen, "fullscreen", false, "start in fullscreen")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf(`%s`, err)
	}
}

func run(ctx context.Context, opts options) error {
	o := orrery.New()
	sc := scene.Assemble(scene.Config{Assets: opts.assets}, o.Snapshot())

	m := control.NewMetrics(o)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.listen != "" {
		srv := control.NewServer(o, m)
		go func() {
			if err := srv.ListenAndServe(ctx, opts.listen); err != nil {
				log.Printf(`control server stopped: %s`, err)
			}
		}()
	}

	dc, err := ui.NewDrawContext(o, sc, ui.Options{
		Width:      opts.width,
		Height:     opts.height,
		Fullscreen: opts.fullscreen,
		Font:       opts.font,
		Observer:   m,
	})
	if err != nil {
		return err
	}

	dc.Run()

	log.Println(`shutting down`)
	dc.Shutdown()

	return nil
}
