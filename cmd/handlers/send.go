package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSendCmd creates the send command.
func NewSendCmd() *cobra.Command {
	var testRecipient string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Deliver the latest rendered newsletter to subscribers",
		Long: `Send the most recent rendered edition to every subscriber over SMTP.
Each recipient gets an individually addressed message with their email
substituted into the preference-management link.

With --to, the newsletter is sent to the given address only. Use this to
preview an edition before the full delivery.

Examples:
  newsbrief send
  newsbrief send --to me@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd.Context(), testRecipient)
		},
	}

	cmd.Flags().StringVar(&testRecipient, "to", "", "send only to this address (test delivery)")

	return cmd
}

func runSend(ctx context.Context, testRecipient string) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	sender, err := builder.Sender()
	if err != nil {
		return err
	}
	if sender == nil {
		return fmt.Errorf("SMTP is not configured; set email.smtp.host or SMTP_HOST")
	}

	if testRecipient != "" {
		if err := sender.SendTo(ctx, testRecipient); err != nil {
			return err
		}
		fmt.Printf("Test newsletter sent to %s\n", testRecipient)
		return nil
	}
	return sender.Run(ctx)
}
