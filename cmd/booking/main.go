package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/bemooooooooo/coworking-client/internal/api"
	"github.com/bemooooooooo/coworking-client/internal/config"
	"github.com/bemooooooooo/coworking-client/internal/modules/auth"
	"github.com/bemooooooooo/coworking-client/internal/modules/booking"
	"github.com/bemooooooooo/coworking-client/internal/modules/reservation"
	"github.com/bemooooooooo/coworking-client/internal/modules/workspace"
	"github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal(err)
	}

	session := api.NewSession()
	authClient := api.NewClient(cfg.AuthBaseURL, session)
	apiClient := api.NewClient(cfg.APIBaseURL, session)

	authService := auth.NewService(authClient, session)
	authClient.SetRefresher(authService)
	apiClient.SetRefresher(authService)

	workspaces := workspace.NewService(apiClient)
	reservations := reservation.NewService(apiClient)

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	user, err := authService.Login(ctx, prompt(in, "username: "), prompt(in, "password: "))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("logged in as %s\n", user.Username)

	flow := booking.NewWorkflow(workspaces, reservations)
	if err := flow.Start(ctx); err != nil {
		log.Printf("could not load existing reservations: %v", err)
	}

	if err := run(ctx, in, flow); err != nil {
		log.Fatal(err)
	}
}

// run loops the three stage prompts until the reservation is confirmed or the
// user backs out of time selection.
func run(ctx context.Context, in *bufio.Scanner, flow *booking.Workflow) error {
	for {
		switch flow.Step() {
		case booking.StepTimeSelection:
			line := prompt(in, "start time (yyyy-MM-dd HH:mm:ss, empty to quit): ")
			if line == "" {
				return nil
			}
			t, err := timeutil.ParseWire(line)
			if err != nil {
				fmt.Println("unrecognized time, try again")
				continue
			}
			if err := flow.SelectTime(ctx, t); err != nil {
				report(err)
			}

		case booking.StepWorkspaceSelection:
			offered := flow.Offered()
			if len(offered) == 0 {
				fmt.Println("no workspaces free for that hour")
				if _, err := flow.Back(); err != nil {
					return err
				}
				continue
			}
			for _, ws := range offered {
				fmt.Printf("  [%d] %s (%s, seats %d)\n", ws.ID, ws.Name, ws.Type, ws.Capacity)
			}
			line := prompt(in, "workspace id (empty to go back): ")
			if line == "" {
				if _, err := flow.Back(); err != nil {
					return err
				}
				continue
			}
			id, err := strconv.ParseInt(line, 10, 64)
			if err != nil {
				fmt.Println("not a number, try again")
				continue
			}
			if err := flow.SelectWorkspace(id); err != nil {
				report(err)
			}

		case booking.StepConfirmation:
			ws := flow.Selected()
			start := flow.DateTime()
			answer := prompt(in, fmt.Sprintf("book %s on %s for %s? [y/n/b] ",
				ws.Name, start.Format(timeutil.WireLayout), booking.DefaultDuration))
			switch strings.ToLower(answer) {
			case "y":
				created, err := flow.Confirm(ctx)
				if err != nil {
					report(err)
					continue
				}
				if created != nil {
					fmt.Printf("reservation #%d confirmed: %s %s to %s\n",
						created.ID, created.WorkspaceName,
						created.StartTime.Time.Format("15:04"), created.EndTime.Time.Format("15:04"))
				}
			case "b":
				if _, err := flow.Back(); err != nil {
					return err
				}
			default:
				flow.Reset()
			}

		case booking.StepCompleted:
			return nil
		}
	}
}

func report(err error) {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, booking.ErrNotBookable):
		fmt.Printf("bookings must be in the future and between %02d:00 and %02d:00\n",
			timeutil.OpeningHour, timeutil.ClosingHour)
	case errors.Is(err, booking.ErrSlotOccupied):
		fmt.Println("you already have a reservation overlapping that hour")
	case errors.Is(err, booking.ErrWorkspaceNotOffered):
		fmt.Println("pick one of the listed workspaces")
	case errors.Is(err, api.ErrAuthExpired):
		fmt.Println("session expired, please restart and log in again")
	case errors.As(err, &apiErr):
		fmt.Printf("rejected by the backend: %s\n", apiErr.Message)
	case api.IsTransport(err):
		fmt.Println("network trouble, try again")
	default:
		fmt.Printf("error: %v\n", err)
	}
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}
