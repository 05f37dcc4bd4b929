package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hummel-lab/tistim/pkg/builder"
)

func newRunCmd(opts *options) *cobra.Command {
	var (
		subject     string
		session     string
		protocol    string
		set         map[string]string
		autoTrigger time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stream a stimulation session to the simulated device",
		Long: `Arm the configured protocol and stream it to the simulated device, one device
session per repetition.

Commands are read from stdin, one per line:
  update k=v ...   retarget the running output, e.g. "update ampl_sum=3 ampl_ratio=1.5"
  trigger          fire the simulated PFI trigger line
  status           print the controller state
  stop             ramp the output down and end the session

Interrupting the process ramps the output down as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if subject != "" {
				cfg.Session.Subject = subject
			}
			if session != "" {
				cfg.Session.Session = session
			}
			if protocol != "" {
				cfg.Session.Protocol = protocol
				cfg.Session.Blind = false
			}
			if cfg.Protocol, err = applySet(set, cfg.Protocol); err != nil {
				return err
			}
			if opts.verbose {
				cfg.Logging.Level = "debug"
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			s, err := builder.NewSession(ctx, cfg,
				builder.SessionWithDeviceOptions(builder.DeviceWithAutoTrigger(autoTrigger)))
			if err != nil {
				return err
			}
			return runSession(ctx, cmd, s)
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "subject id (overrides session.subject)")
	cmd.Flags().StringVar(&session, "session", "", "session id (overrides session.session)")
	cmd.Flags().StringVar(&protocol, "protocol", "", "protocol name; disables blind mode")
	cmd.Flags().StringToStringVar(&set, "set", nil, "override parameters, e.g. --set repetitions=3")
	cmd.Flags().DurationVar(&autoTrigger, "auto-trigger", 0, "fire the simulated trigger this long after each start")
	return cmd
}

func runSession(ctx context.Context, cmd *cobra.Command, s *builder.Session) error {
	out := cmd.OutOrStdout()
	if err := s.Arm(); err != nil {
		return err
	}
	if !s.Config.Session.Blind {
		fmt.Fprintf(out, "armed %s: %d repetition(s)\n", s.Kind, s.Params.Repetitions)
	} else {
		fmt.Fprintf(out, "armed blinded protocol: %d repetition(s)\n", s.Params.Repetitions)
	}
	if err := s.Start(ctx); err != nil {
		return err
	}

	go readCommands(cmd.InOrStdin(), cmd.ErrOrStderr(), s)

	done := make(chan error, 1)
	go func() { done <- s.Controller.Wait(context.Background()) }()

	events := s.Controller.Events()
	var runErr error
loop:
	for {
		select {
		case ev := <-events:
			printEvent(out, ev, s.Config.Session.Blind)
		case runErr = <-done:
			break loop
		}
	}
	for drained := false; !drained; {
		select {
		case ev := <-events:
			printEvent(out, ev, s.Config.Session.Blind)
		default:
			drained = true
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Close(closeCtx); err != nil && runErr == nil {
		runErr = err
	}
	s.Meter.PrintSummary(out)
	return runErr
}

func printEvent(w io.Writer, ev builder.SessionEvent, blind bool) {
	line := fmt.Sprintf("%s %-20s rep=%d state=%q", ev.Time.Format("15:04:05.000"), ev.Type, ev.Repetition, ev.State)
	if !blind && ev.Kind != builder.KindNone {
		line += " protocol=" + ev.Kind.String()
	}
	if ev.Err != nil {
		line += " error=" + ev.Err.Error()
	}
	fmt.Fprintln(w, line)
}

// readCommands drives the controller from text lines until r is exhausted.
func readCommands(r io.Reader, errw io.Writer, s *builder.Session) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if err := dispatch(fields, s, errw); err != nil {
			fmt.Fprintf(errw, "%s: %v\n", fields[0], err)
		}
	}
}

func dispatch(fields []string, s *builder.Session, errw io.Writer) error {
	switch fields[0] {
	case "stop":
		return s.Controller.RequestStop()
	case "trigger":
		s.Device.FireTrigger()
		return nil
	case "status":
		fmt.Fprintf(errw, "state=%q rep=%d running=%v\n", s.Controller.State(), s.Controller.Repetition(), s.Controller.IsRunning())
		return nil
	case "update":
		form := make(map[string]string, len(fields)-1)
		for _, kv := range fields[1:] {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("%w: expected key=value, got %q", builder.ErrConfig, kv)
			}
			form[k] = v
		}
		p, err := builder.ParseParameters(form, s.Controller.Params())
		if err != nil {
			return err
		}
		return s.Controller.RequestUpdate(p)
	default:
		return fmt.Errorf("unknown command")
	}
}
