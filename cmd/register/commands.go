package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"award-registration/internal/client"
	"award-registration/internal/logger"
	"award-registration/internal/models"
	"award-registration/internal/utils"
	"award-registration/internal/wizard"

	"github.com/spf13/cobra"
)

type checkoutOptions struct {
	Offering string
	Seats    int
	Buyer    wizard.Buyer
	Guests   []string
	VIP      []string
	Notes    string
}

func offeringsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offerings",
		Short: "List sponsorship tiers and individual seats",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI(cmd)
			if err != nil {
				return err
			}
			offerings, err := api.Offerings(cmd.Context())
			if err != nil {
				return err
			}
			printOfferings(cmd.OutOrStdout(), offerings)
			return nil
		},
	}
}

func checkoutCmd() *cobra.Command {
	var opts checkoutOptions

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Fill in the wizard and request a payment intent",
		Example: `  register checkout --tier "Gold Sponsor" --first Ada --last Lovelace --email ada@example.com \
      --guest "host-1=Grace Hopper" --guest "0-1=Alan Turing" --vip 0-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI(cmd)
			if err != nil {
				return err
			}
			return runCheckout(cmd.Context(), api, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Offering, "tier", "", "Sponsorship tier name (omit for individual seats)")
	f.IntVar(&opts.Seats, "seats", 1, "Number of individual seats")
	f.StringVar(&opts.Buyer.FirstName, "first", "", "Buyer first name")
	f.StringVar(&opts.Buyer.LastName, "last", "", "Buyer last name")
	f.StringVar(&opts.Buyer.Email, "email", "", "Buyer email")
	f.StringVar(&opts.Buyer.Phone, "phone", "", "Buyer phone")
	f.StringVar(&opts.Buyer.Org, "org", "", "Organization")
	f.StringArrayVar(&opts.Guests, "guest", nil, `Guest as SEAT=NAME, e.g. "host-1=Grace Hopper" or "0-3=Alan Turing"`)
	f.StringSliceVar(&opts.VIP, "vip", nil, "Seats to mark VIP, e.g. 0-1,0-2")
	f.StringVar(&opts.Notes, "notes", "", "Dietary or seating notes")

	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("last")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newAPI(cmd *cobra.Command) (*client.PaymentAPI, error) {
	server, err := cmd.Flags().GetString("server")
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Options{Terminal: cmd.ErrOrStderr(), MinLevel: logger.WARN})
	if err != nil {
		return nil, err
	}
	return client.NewPaymentAPI(server, nil, log), nil
}

type registrationAPI interface {
	wizard.IntentCreator
	Offerings(ctx context.Context) (models.OfferingsResponse, error)
}

func runCheckout(ctx context.Context, api registrationAPI, opts checkoutOptions, out io.Writer) error {
	offerings, err := api.Offerings(ctx)
	if err != nil {
		return fmt.Errorf("fetch offerings: %w", err)
	}

	session := wizard.NewSession(api)
	if opts.Offering == "" || opts.Offering == offerings.Individual.Label {
		session.SelectIndividual(offerings.Individual)
		session.ChangeQuantity(offerings.Individual, opts.Seats-1)
	} else {
		offering, ok := offerings.Find(opts.Offering)
		tier, isTier := offering.(models.Tier)
		if !ok || !isTier {
			return fmt.Errorf("unknown tier %q", opts.Offering)
		}
		session.SelectTier(tier)
	}

	session.SetBuyer(opts.Buyer)
	st := session.GoToStep(ctx, wizard.StepGuests)
	if st.Step != wizard.StepGuests {
		return errors.New(st.Notice)
	}

	for _, g := range opts.Guests {
		key, first, last, err := parseGuest(g)
		if err != nil {
			return err
		}
		session.SetGuestName(key, first, last)
	}
	for _, v := range opts.VIP {
		var key wizard.GuestKey
		if err := key.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			return err
		}
		session.ToggleVIP(key)
	}
	if opts.Notes != "" {
		session.SetNotes(opts.Notes)
	}

	st = session.GoToStep(ctx, wizard.StepReview)
	printReview(out, wizard.Review(st))

	st = session.GoToStep(ctx, wizard.StepPayment)
	summary := wizard.PaymentSummary(st)
	printSummary(out, summary)

	handle, live := wizard.LiveIntent(st)
	if !live {
		if st.Notice != "" {
			return errors.New(st.Notice)
		}
		return errors.New(wizard.NoticeIntentFailed)
	}
	fmt.Fprintf(out, "\nPayment intent: %s\n", handle.ID)
	fmt.Fprintf(out, "Reference:      %s\n", models.ConfirmationRef(handle.ID))
	return nil
}

// parseGuest splits "0-3=Alan Turing" into its seat key and a first and
// last name.
func parseGuest(s string) (wizard.GuestKey, string, string, error) {
	var key wizard.GuestKey
	seat, name, ok := strings.Cut(s, "=")
	if !ok {
		return key, "", "", fmt.Errorf("guest %q: want SEAT=NAME", s)
	}
	if err := key.UnmarshalText([]byte(strings.TrimSpace(seat))); err != nil {
		return key, "", "", err
	}
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	return key, first, strings.TrimSpace(last), nil
}

func printOfferings(w io.Writer, o models.OfferingsResponse) {
	fmt.Fprintf(w, "%s\n%s\n", o.Event, strings.Repeat("=", 40))
	for _, t := range o.Tiers {
		vip := t.VIP.String()
		if vip == "" {
			vip = "none"
		}
		fmt.Fprintf(w, "  %-18s %10s  %2d seats  VIP: %s\n", t.Name, utils.FormatDollars(t.Price), t.Seats, vip)
	}
	fmt.Fprintf(w, "  %-18s %10s  per seat (max %d)\n", o.Individual.Label, utils.FormatDollars(o.Individual.UnitPrice), o.Individual.Max)
}

func printReview(w io.Writer, v wizard.ReviewView) {
	fmt.Fprintln(w, "Review")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "  Offering:  %s\n", v.Offering)
	fmt.Fprintf(w, "  Name:      %s\n", v.Name)
	fmt.Fprintf(w, "  Email:     %s\n", v.Email)
	fmt.Fprintf(w, "  Phone:     %s\n", v.Phone)
	if v.Org != "" {
		fmt.Fprintf(w, "  Org:       %s\n", v.Org)
	}
	for _, g := range append(append([]wizard.ReviewGuest(nil), v.HostGuests...), v.TableGuests...) {
		vip := ""
		if g.VIP {
			vip = " (VIP)"
		}
		fmt.Fprintf(w, "  %-12s %s%s\n", g.Label+":", g.Name, vip)
	}
	if v.Notes != "" {
		fmt.Fprintf(w, "  Notes:     %s\n", v.Notes)
	}
	fmt.Fprintf(w, "  VIP guests: %d\n", v.VIPCount)
	fmt.Fprintf(w, "  Total:     %s\n", v.TotalText)
}

func printSummary(w io.Writer, p wizard.PaymentView) {
	fmt.Fprintln(w, "\nPayment")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "  %s, %s for %s\n", p.Offering, p.Seats, p.Registrant)
	fmt.Fprintf(w, "  Total due: %s\n", p.TotalDue)
	if p.Error != "" {
		fmt.Fprintf(w, "  Error:     %s\n", p.Error)
	}
	fmt.Fprintf(w, "  [%s]\n", p.ButtonLabel)
}
