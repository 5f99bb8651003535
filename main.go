package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StudyBoard/internal/config"
	"StudyBoard/internal/logger"
	"StudyBoard/internal/net"
	"StudyBoard/internal/ui"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("[MAIN] %+v", err)
	}

	host, _ := os.Hostname()
	l := logger.New("[STUDYBOARD] ", cfg.Debug, logger.RollbarOptions{
		Token:       cfg.Rollbar.Token,
		Environment: cfg.Env,
		Host:        host,
		CodeVersion: version,
	})

	cli := commandLine{out: os.Stdout}
	cmd, err := cli.parse(os.Args)
	if err != nil {
		if err != errHelp {
			l.Error("[MAIN] Bad command line", err)
		}
		l.Close()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	switch cmd.mode {
	case modeJoin:
		err = runViewer(ctx, cfg, l, cmd.link)
	case modeBrowse:
		err = runBrowse(os.Stdout, cmd.timeout)
	default:
		err = runHost(ctx, cfg, l, cfg.Share.Enabled && !cmd.noShare)
	}
	stop()
	if err != nil {
		l.Error("[MAIN] Exiting", err)
		l.Close()
		os.Exit(1)
	}
	l.Close()
}

// runHost opens the board window and, when sharing, serves every committed
// snapshot to viewers on the LAN.
func runHost(ctx context.Context, cfg *config.Config, l logger.Logger, share bool) error {
	l.Info("[MAIN] Starting as HOST")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var link string
	var hub *net.Hub
	if share {
		ip, err := net.OutgoingIP()
		if err != nil {
			l.Warn("[SHARE] Could not find LAN address", err)
			ip = "127.0.0.1"
		}
		link = net.ShareLink(ip, cfg.Share.Port)

		hub = net.NewHub(l)
		go func() {
			if err := hub.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Share.Port)); err != nil {
				l.Error("[SHARE] Share server stopped", err)
			}
		}()

		if cfg.Share.Advertise {
			srv, err := net.Advertise("", cfg.Share.Port)
			if err != nil {
				l.Warn("[SHARE] mDNS advertise failed", err)
			} else {
				defer srv.Shutdown()
				l.Info("[SHARE] Advertising as " + net.ServiceType)
			}
		}
		l.Info("[SHARE] Share link: " + link)
	}

	a := ui.NewHostApp(cfg, l, link)
	if hub != nil {
		pub := net.NewPublisher(hub, l)
		go pub.Run(ctx)
		a.OnCommit = pub.Submit
		hub.OnPeersChanged = a.SetViewers
	}
	go func() {
		<-ctx.Done()
		a.Quit()
	}()
	a.Run()
	return nil
}

// runViewer opens a read-only window on the board at link.
func runViewer(ctx context.Context, cfg *config.Config, l logger.Logger, link string) error {
	l.Info("[MAIN] Starting as VIEWER")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	v := ui.NewViewerApp(cfg, l, link)
	v.OnClosed(cancel)
	go func() {
		dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
		viewer, err := net.Dial(dialCtx, link, l)
		dialCancel()
		if err != nil {
			l.Error("[SHARE] Connection failed", err)
			v.SetStatus("Connection failed: " + err.Error())
			return
		}
		defer viewer.Close()

		viewer.OnHello = func(m net.Message) {
			v.SetStatus(fmt.Sprintf("Connected to %s (%d viewing)", link, m.Peers))
		}
		viewer.OnFrame = func(_ net.Message, img image.Image) {
			v.ShowFrame(img)
		}
		if err := viewer.Run(ctx); err != nil {
			l.Warn("[SHARE] Viewer stopped", err)
			v.SetStatus(err.Error())
		}
	}()
	v.Run()
	return nil
}

// runBrowse prints the boards that answer on the LAN.
func runBrowse(out io.Writer, timeout time.Duration) error {
	found := 0
	err := net.Browse(timeout, func(b net.Board) {
		found++
		fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Link())
	})
	if err != nil {
		return err
	}
	if found == 0 {
		fmt.Fprintln(out, "No boards found.")
	}
	return nil
}
