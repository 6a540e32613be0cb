package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/osa911/portfolio/internal/client"
	"github.com/osa911/portfolio/internal/contact"
	"github.com/osa911/portfolio/internal/form"
	"github.com/osa911/portfolio/internal/logging"
)

const defaultEndpoint = "http://localhost:8080/api/contact"

type sendOptions struct {
	endpoint string
	name     string
	email    string
	subject  string
	message  string
	timeout  time.Duration
	quiet    bool
	verbose  bool
}

func newSendCmd() *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message through the contact relay",
		Example: `  contact send --name Alice --email alice@example.com \
    --subject "Project inquiry" --message "I would like a new website."
  echo "Long message..." | contact send --name Alice --email alice@example.com --subject Hello --message -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.endpoint, "endpoint", defaultEndpoint, "Contact relay URL")
	cmd.Flags().StringVar(&opts.name, "name", "", "Your name")
	cmd.Flags().StringVar(&opts.email, "email", "", "Your email address")
	cmd.Flags().StringVar(&opts.subject, "subject", "", "Message subject")
	cmd.Flags().StringVar(&opts.message, "message", "", `Message body, or "-" to read it from stdin`)
	cmd.Flags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "How long to wait for the relay")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not show a progress spinner")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log request details to stderr")

	return cmd
}

func runSend(cmd *cobra.Command, opts *sendOptions) error {
	out := cmd.OutOrStdout()

	level := logging.LevelWarn
	if opts.verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewLoggerWithWriter(level, cmd.ErrOrStderr())

	message := opts.message
	if message == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read message from stdin: %w", err)
		}
		message = strings.TrimRight(string(data), "\r\n")
	}

	controller := form.NewController(client.New(opts.endpoint, client.WithTimeout(opts.timeout)))

	if !opts.quiet {
		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " " + contact.StatusSending
		unsubscribe := controller.Subscribe(func(state form.State) {
			if state.Loading {
				s.Start()
			} else {
				s.Stop()
			}
		})
		defer unsubscribe()
		defer s.Stop()
	}

	controller.UpdateField(contact.FieldName, opts.name)
	controller.UpdateField(contact.FieldEmail, opts.email)
	controller.UpdateField(contact.FieldSubject, opts.subject)
	controller.UpdateField(contact.FieldMessage, message)

	logger.Debug("Submitting contact request to %s (timeout %s)", opts.endpoint, opts.timeout)
	outcome := controller.Submit(cmd.Context())
	logger.Debug("Submission finished: %s", outcome)

	state := controller.State()
	for _, f := range contact.Fields() {
		if msg, ok := state.Errors[f]; ok {
			fmt.Fprintf(out, "  %s: %s\n", f, msg)
		}
	}
	fmt.Fprintln(out, state.Status)

	if outcome != form.OutcomeSucceeded {
		return errors.New("message was not sent")
	}
	return nil
}
