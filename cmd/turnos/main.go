// Command turnos prints the day's turnos, the month counters and the month
// grid from the terminal, using the same backend as the dashboard.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/BruksfildServices01/barber-dashboard/internal/calendar"
	"github.com/BruksfildServices01/barber-dashboard/internal/config"
	"github.com/BruksfildServices01/barber-dashboard/internal/dashboard"
	"github.com/BruksfildServices01/barber-dashboard/internal/dto"
	"github.com/BruksfildServices01/barber-dashboard/internal/infra/repository"
	"github.com/BruksfildServices01/barber-dashboard/internal/logging"
	"github.com/BruksfildServices01/barber-dashboard/internal/models"
	"github.com/BruksfildServices01/barber-dashboard/internal/session"
	"github.com/BruksfildServices01/barber-dashboard/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-dashboard/internal/usecase/appointment"
)

func main() {
	fs := flag.NewFlagSet("turnos", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultConfigFile, "path to the TOML config file")
	username := fs.String("user", "", "staff username (prompted when empty)")
	date := fs.String("date", "", "day to list as YYYY-MM-DD (default: today)")
	verbose := fs.Bool("v", false, "log backend requests to stderr")
	_ = fs.Parse(os.Args[1:])

	if err := run(*configPath, *username, *date, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, username, date string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if verbose {
		logger = logging.New(os.Stderr, "debug")
	}

	loc := timezone.Location(cfg.Dashboard.Timezone)
	now := time.Now().In(loc)
	if date == "" {
		date = timezone.Date(now, loc)
	}
	day, err := time.ParseInLocation(timezone.DateLayout, date, loc)
	if err != nil {
		return fmt.Errorf("invalid -date %q: expected YYYY-MM-DD", date)
	}

	creds, err := promptCredentials(os.Stdin, username)
	if err != nil {
		return err
	}

	authClient := repository.NewClient(cfg.Backend.URL, cfg.BackendTimeout(), nil, logger)
	store := session.NewStore(repository.NewAuthHTTPClient(authClient), logger, nil)
	defer store.Logout()

	ctx, cancel := context.WithTimeout(context.Background(), 4*cfg.BackendTimeout())
	defer cancel()

	sess, err := store.Login(ctx, creds)
	if err != nil {
		var ae *session.AuthError
		if errors.As(err, &ae) {
			return errors.New(ae.Message())
		}
		return err
	}
	fmt.Printf("Sesión iniciada como %s (%s)\n\n", sess.Name, sess.Role)

	repo := repository.NewAppointmentHTTPRepository(
		repository.NewClient(cfg.Backend.URL, cfg.BackendTimeout(), store, logger),
	)

	listByDate := ucAppointment.NewListAppointmentsByDate(repo, cfg.Dashboard.ContactMessage)
	stats := ucAppointment.NewGetStatistics(repo)
	cal := calendar.NewView(
		ucAppointment.NewListAppointmentsByMonth(repo),
		ucAppointment.NewGetDayAvailability(listByDate),
		nil,
		loc,
		func() time.Time { return day },
		logger,
	)

	// ====== TURNOS DEL DÍA ======
	cards, err := listByDate.Execute(ctx, date)
	if err != nil {
		return err
	}
	printCards(os.Stdout, dashboard.Heading(day), cards)

	// ====== ESTADÍSTICAS ======
	month := calendar.MonthOf(day)
	start, end := month.Range()
	snap, err := stats.Execute(ctx, start, end)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s: total %d | pendientes %d | completados %d | en curso %d\n\n",
		month.Title(), snap.Total, snap.Pending, snap.Completed, snap.InProgress)

	// ====== CALENDARIO ======
	if err := cal.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "No se pudo cargar el calendario: %v\n", err)
	}
	printGrid(os.Stdout, cal.Snapshot())

	return nil
}

func promptCredentials(in io.Reader, username string) (models.Credentials, error) {
	if username == "" {
		fmt.Print("Usuario: ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return models.Credentials{}, fmt.Errorf("reading username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return models.Credentials{}, errors.New("username is required")
	}

	fmt.Print("Contraseña: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return models.Credentials{}, fmt.Errorf("reading password: %w", err)
	}

	return models.Credentials{Username: username, Password: string(password)}, nil
}

func printCards(w io.Writer, heading string, cards []dto.AppointmentCardDTO) {
	fmt.Fprintf(w, "Turnos del %s\n", heading)
	if len(cards) == 0 {
		fmt.Fprintln(w, "  No hay turnos para hoy")
		return
	}
	for _, c := range cards {
		line := fmt.Sprintf("  %s-%s  %-12s %s", c.StartTime, c.EndTime, c.StatusLabel, c.ClientName)
		if c.ServiceName != "" {
			line += " · " + c.ServiceName
		}
		fmt.Fprintf(w, "%s  (%s)\n", line, c.ClientPhone)
	}
}

func printGrid(w io.Writer, cal dto.CalendarDTO) {
	fmt.Fprintln(w, cal.Title)
	if cal.Error != "" {
		fmt.Fprintln(w, "  "+cal.Error)
	}
	fmt.Fprintln(w, " lu  ma  mi  ju  vi  sá  do")
	for _, week := range cal.Weeks {
		var b strings.Builder
		for _, cell := range week {
			switch {
			case !cell.InMonth:
				b.WriteString("  · ")
			case cell.Occupied > 0:
				fmt.Fprintf(&b, "%3d*", cell.Day)
			default:
				fmt.Fprintf(&b, "%3d ", cell.Day)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	fmt.Fprintln(w, "(* días con turnos)")
}
