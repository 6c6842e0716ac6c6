// Command ishara-avatar shows the gestures matched by an Ishara server as a
// stick figure in the terminal.
//
// It subscribes to the server's animation stream and plays every event it
// receives. With -gesture it plays a single gesture locally without a
// server. The avatar only displays; it never sends anything back.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/fatih/color"

	"github.com/MrWong99/ishara/internal/animate"
)

const clearScreen = "\033[H\033[2J"

type player struct {
	out      io.Writer
	realtime bool
	quiet    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	url := flag.String("url", "ws://localhost:8000/api/ws/animations", "animation stream of an Ishara server")
	gestureID := flag.String("gesture", "", "play this gesture locally instead of connecting to a server")
	fps := flag.Int("fps", 10, "keyframe rate for -gesture")
	duration := flag.Duration("duration", 2*time.Second, "clip length for -gesture")
	realtime := flag.Bool("realtime", true, "pace frames at their timestamps and redraw in place")
	quiet := flag.Bool("quiet", false, "print one description line per gesture instead of frames")
	flag.Parse()

	p := &player{out: color.Output, realtime: *realtime, quiet: *quiet}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *gestureID != "" {
		anim := animate.NewAnimator().Plan(*gestureID, *duration, *fps)
		if err := p.play(ctx, anim); err != nil && !errors.Is(err, context.Canceled) {
			color.Red("ishara-avatar: %v\n", err)
			return 1
		}
		return 0
	}

	if err := p.follow(ctx, *url); err != nil && !errors.Is(err, context.Canceled) {
		color.Red("ishara-avatar: %v\n", err)
		return 1
	}
	return 0
}

// follow plays every event from the stream at url until ctx ends or the
// server closes the connection.
func (p *player) follow(ctx context.Context, url string) error {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", url, err)
	}
	defer conn.CloseNow()
	color.Cyan("connected to %s; waiting for gestures…\n", url)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				color.Yellow("server closed the stream (%v)\n", status)
				return nil
			}
			return err
		}
		var ev animate.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			color.Red("skipping malformed event: %v\n", err)
			continue
		}
		fmt.Fprintf(p.out, "%s %s (%s, %s)\n",
			color.New(color.FgMagenta, color.Bold).Sprint("▶"),
			ev.GestureID, ev.Language, ev.Source)
		if err := p.play(ctx, ev.Animation); err != nil {
			return err
		}
	}
}

// play draws every frame of anim, then prints its description.
func (p *player) play(ctx context.Context, anim animate.Animation) error {
	if p.quiet || len(anim.Frames) == 0 {
		fmt.Fprintln(p.out, anim.Describe())
		return nil
	}
	if !anim.Posed {
		color.Yellow("no dedicated pose for %q; showing rest pose\n", anim.GestureID)
	}

	start := time.Now()
	for i, f := range anim.Frames {
		if p.realtime {
			wait := time.Duration(f.AtMS)*time.Millisecond - time.Since(start)
			if wait > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(wait):
				}
			}
			fmt.Fprint(p.out, clearScreen)
		} else if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "%s  frame %d/%d  t=%dms  progress=%.2f\n",
			anim.GestureID, i+1, len(anim.Frames), f.AtMS, f.Progress)
		fmt.Fprint(p.out, drawFrame(f).Colored())
	}
	color.New(color.FgGreen).Fprintln(p.out, anim.Describe())
	return nil
}
