package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wecare/hospitalbot/internal/application/services"
	"github.com/wecare/hospitalbot/internal/domain/entities"
	"github.com/wecare/hospitalbot/internal/domain/providers"
	"github.com/wecare/hospitalbot/internal/infrastructure/observability"
)

const (
	welcomeBanner    = "📢 Selamat datang di HospitalChatbot 👩‍⚕️🧑‍⚕️"
	exitHint         = "Ketik 'exit' kapan saja untuk keluar.\n"
	complaintPrompt  = "🩺 Keluhan utama pasien: "
	examPromptFormat = "🔍 Pemeriksaan %d (kosongkan jika cukup): "
	farewell         = "👋 Sampai jumpa! Semoga sehat selalu~"
	fetchFailed      = "⚠️ Gagal mendapatkan data RS. Silakan coba lagi nanti."
	resultHeader     = "\n🤖 Rekomendasi Rumah Sakit:"
	turnSeparator    = "\n---\n"

	exitCommand     = "exit"
	maxExaminations = 3
)

// errExit ends the session at a prompt.
var errExit = errors.New("exit requested")

// Recommender produces a recommendation result for one turn
type Recommender interface {
	GetRecommendations(ctx context.Context, req services.RecommendationRequest) *entities.RecommendationResult
}

// Options configures a Driver
type Options struct {
	Category entities.Category
	Location *entities.UserLocation
	Metrics  *observability.Metrics
}

// Driver runs the interactive complaint/examination loop.
type Driver struct {
	out         io.Writer
	lines       <-chan string
	source      providers.HospitalSource
	recommender Recommender
	opts        Options
}

func NewDriver(in io.Reader, out io.Writer, source providers.HospitalSource, recommender Recommender, opts Options) *Driver {
	if opts.Category == "" {
		opts.Category = entities.CategoryNearest
	}
	return &Driver{
		out:         out,
		lines:       readLines(in),
		source:      source,
		recommender: recommender,
		opts:        opts,
	}
}

// readLines feeds input lines, without their terminators, into a channel
// that is closed at end of input.
func readLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" || err == nil {
				lines <- strings.TrimRight(line, "\r\n")
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// Run loops until the user types exit, input ends or ctx is cancelled.
// Exit and end of input return nil.
func (d *Driver) Run(ctx context.Context) error {
	d.println(welcomeBanner)
	d.println(exitHint)

	for {
		err := d.turn(ctx)
		switch {
		case errors.Is(err, errExit), errors.Is(err, io.EOF):
			d.println(farewell)
			return nil
		case err != nil:
			return err
		}
	}
}

func (d *Driver) turn(ctx context.Context) error {
	complaint, err := d.prompt(ctx, complaintPrompt)
	if err != nil {
		return err
	}

	var examinations []string
	for i := 1; i <= maxExaminations; i++ {
		exam, err := d.prompt(ctx, fmt.Sprintf(examPromptFormat, i))
		if err != nil {
			return err
		}
		if exam == "" {
			break
		}
		examinations = append(examinations, exam)
	}

	turnID := uuid.New().String()
	logger := observability.LoggerFromContext(ctx).With().Str("turn_id", turnID).Logger()
	ctx = logger.WithContext(ctx)
	start := time.Now()

	logger.Info().Int("examinations", len(examinations)).Msg("turn started")

	hospitals := d.source.FetchHospitals(ctx)
	if len(hospitals) == 0 {
		logger.Warn().Msg("no hospitals available, skipping recommendation")
		d.println(fetchFailed)
		observability.RecordTurn(ctx, d.opts.Metrics, "no_hospitals", time.Since(start))
		return nil
	}

	result := d.recommender.GetRecommendations(ctx, services.RecommendationRequest{
		Complaint:    complaint,
		Examinations: examinations,
		Hospitals:    hospitals,
		Category:     d.opts.Category,
		UserLocation: d.opts.Location,
	})

	out, err := result.Indent()
	if err != nil {
		return fmt.Errorf("render recommendation: %w", err)
	}
	d.println(resultHeader)
	d.println(string(out))
	d.println(turnSeparator)

	outcome := "ok"
	if result.IsError() {
		outcome = "error"
	}
	observability.RecordTurn(ctx, d.opts.Metrics, outcome, time.Since(start))
	logger.Info().Str("outcome", outcome).Dur("duration", time.Since(start)).Msg("turn finished")
	return nil
}

// prompt writes the label and waits for one line. It returns errExit for
// the exit command and io.EOF when input is exhausted.
func (d *Driver) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(d.out, label)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-d.lines:
		if !ok {
			fmt.Fprintln(d.out)
			return "", io.EOF
		}
		if strings.EqualFold(line, exitCommand) {
			return "", errExit
		}
		return line, nil
	}
}

func (d *Driver) println(s string) {
	fmt.Fprintln(d.out, s)
}
