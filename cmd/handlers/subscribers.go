package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"newsbrief/internal/core"
)

// NewSubscribersCmd creates the subscribers command group.
func NewSubscribersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "Manage newsletter subscribers",
		Long: `Manage the newsletter recipient list.

Subcommands:
  add     Add a subscriber or update an existing one
  remove  Remove a subscriber
  list    List all subscribers

Examples:
  newsbrief subscribers add reader@example.com
  newsbrief subscribers remove reader@example.com
  newsbrief subscribers list`,
	}

	cmd.AddCommand(newSubscribersAddCmd())
	cmd.AddCommand(newSubscribersRemoveCmd())
	cmd.AddCommand(newSubscribersListCmd())

	return cmd
}

func newSubscribersAddCmd() *cobra.Command {
	var (
		preferences string
		country     string
	)

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Add a subscriber or update an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscribersAdd(cmd.Context(), args[0], preferences, country)
		},
	}

	cmd.Flags().StringVar(&preferences, "preferences", "", "free-form content preferences")
	cmd.Flags().StringVar(&country, "country", "", "subscriber country")

	return cmd
}

func newSubscribersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <email>",
		Short: "Remove a subscriber",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscribersRemove(cmd.Context(), args[0])
		},
	}
}

func newSubscribersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all subscribers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscribersList(cmd.Context())
		},
	}
}

func runSubscribersAdd(ctx context.Context, address, preferences, country string) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	sub := &core.Subscriber{
		Email:       address,
		Preferences: preferences,
		Country:     country,
	}

	if err := builder.DB().Subscribers().Upsert(ctx, sub); err != nil {
		return err
	}
	fmt.Printf("Subscriber %s saved (id %d)\n", sub.Email, sub.ID)
	return nil
}

func runSubscribersRemove(ctx context.Context, address string) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	if err := builder.DB().Subscribers().Remove(ctx, address); err != nil {
		return err
	}
	fmt.Printf("Subscriber %s removed\n", address)
	return nil
}

func runSubscribersList(ctx context.Context) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	subs, err := builder.DB().Subscribers().List(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("No subscribers")
		return nil
	}
	for _, sub := range subs {
		fmt.Printf("%d\t%s\t%s\n", sub.ID, sub.Email, sub.CreationTime.Format("2006-01-02"))
	}
	return nil
}
