package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/annvu/foodvision/internal/config"
	"github.com/annvu/foodvision/internal/domain"
	"github.com/annvu/foodvision/internal/logger"
	"github.com/annvu/foodvision/internal/tracker/capture"
	"github.com/annvu/foodvision/internal/tracker/mealstore"
	"github.com/annvu/foodvision/internal/tracker/nutrition"
	"github.com/annvu/foodvision/internal/tracker/pipeline"
	"github.com/annvu/foodvision/internal/tracker/recognition"
	"github.com/annvu/foodvision/internal/tracker/viewstate"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
	imagePath := flag.String("image", "", "submit a single image file and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// Missing credentials fail here, not mid-submission.
	if err := cfg.ValidateTracker(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	recognizer := recognition.NewClient(cfg.Tracker.BackendURL, cfg.Tracker.Timeout)
	resolver := nutrition.NewResolver(&nutrition.Config{
		BaseURL: cfg.Spoonacular.BaseURL,
		APIKey:  cfg.Spoonacular.APIKey,
		Timeout: cfg.Spoonacular.Timeout,
	})
	store := mealstore.NewClient(cfg.Tracker.BackendURL, cfg.Tracker.Timeout)

	submitter := pipeline.NewSubmitter(recognizer, resolver, store, appLogger)

	today := domain.MealDate(time.Now())
	views := viewstate.NewController(store, today, submitter.IsSubmitting, appLogger)

	app := &app{
		cfg:       cfg,
		submitter: submitter,
		store:     store,
		views:     views,
	}

	ctx := context.Background()

	if *imagePath != "" {
		app.submit(ctx, &capture.FileProvider{Path: *imagePath, PreviewMaxPx: cfg.Tracker.PreviewMaxPx})
		return
	}

	app.runLoop(ctx)
}

type app struct {
	cfg       *config.Config
	submitter *pipeline.Submitter
	store     *mealstore.Client
	views     *viewstate.Controller
}

const usage = `Commands:
  scan <path>          submit an image file
  camera               capture from the configured camera and submit
  history              show meals for the selected date
  date <YYYY-MM-DD>    change the selected date
  delete <meal-id>     delete a meal record
  trends               trends view
  help                 show this help
  quit                 exit`

func (a *app) runLoop(ctx context.Context) {
	fmt.Println("FoodVision tracker")
	fmt.Println(usage)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "scan":
			a.views.SetMode(ctx, viewstate.ModeCapture)
			a.submit(ctx, &capture.FileProvider{Path: arg, PreviewMaxPx: a.cfg.Tracker.PreviewMaxPx})
		case "camera":
			a.views.SetMode(ctx, viewstate.ModeCapture)
			a.submit(ctx, &capture.CameraProvider{Command: a.cfg.Tracker.CameraCommand, PreviewMaxPx: a.cfg.Tracker.PreviewMaxPx})
		case "history":
			a.views.SetMode(ctx, viewstate.ModeHistory)
			a.renderHistory()
		case "date":
			if _, err := time.Parse(domain.DateLayout, arg); err != nil {
				fmt.Println("Expected date as YYYY-MM-DD")
				continue
			}
			a.views.SelectDate(ctx, arg)
			if a.views.State().Mode == viewstate.ModeHistory {
				a.renderHistory()
			}
		case "delete":
			a.delete(ctx, arg)
		case "trends":
			a.views.SetMode(ctx, viewstate.ModeTrends)
			fmt.Println("Trends are not available yet.")
		case "help":
			fmt.Println(usage)
		case "quit", "exit":
			return
		default:
			fmt.Printf("Unknown command %q, try help\n", cmd)
		}
	}
}

func (a *app) submit(ctx context.Context, provider capture.Provider) {
	asset, err := provider.Acquire(ctx)
	if err != nil {
		if errors.Is(err, capture.ErrCancelled) {
			return
		}
		fmt.Printf("Capture failed: %v\n", err)
		return
	}

	outcome, err := a.submitter.Submit(ctx, asset)
	if err != nil {
		if errors.Is(err, pipeline.ErrSubmissionInFlight) {
			fmt.Println("A submission is already in progress.")
			return
		}
		fmt.Printf("Submission failed: %v\n", err)
		return
	}

	renderOutcome(outcome)

	if outcome.Status == pipeline.StatusPersisted {
		a.views.Refresh(ctx)
	}
}

// renderOutcome prints one submission result. A nil profile renders as
// "Unknown", never as zero values.
func renderOutcome(o *pipeline.Outcome) {
	switch o.Status {
	case pipeline.StatusPredictionFailed:
		fmt.Printf("Could not recognize the food: %v\n", o.Err)
	case pipeline.StatusNutrientUnknown:
		fmt.Printf("Recognized: %s\n", o.Prediction.FoodLabel)
		fmt.Println("Nutrition: Unknown")
	case pipeline.StatusNotPersisted:
		fmt.Printf("Recognized: %s\n", o.Prediction.FoodLabel)
		renderProfile(o.Profile)
		fmt.Println("Warning: the meal could not be saved.")
	case pipeline.StatusPersisted:
		fmt.Printf("Recognized: %s\n", o.Prediction.FoodLabel)
		renderProfile(o.Profile)
		fmt.Printf("Saved as meal %s\n", o.MealID)
	}
}

func renderProfile(p *domain.NutrientProfile) {
	if p == nil {
		fmt.Println("Nutrition: Unknown")
		return
	}
	fmt.Printf("Nutrition per 100g: %.1f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		p.Calories, p.Protein, p.Carbs, p.Fat)
}

func (a *app) renderHistory() {
	snap := a.views.Snapshot()
	if snap == nil {
		fmt.Println("No history loaded.")
		return
	}

	fmt.Printf("Meals on %s:\n", snap.Date)
	if len(snap.Meals) == 0 {
		fmt.Println("  (none)")
	}
	for _, m := range snap.Meals {
		fmt.Printf("  %s  %-20s %.0f kcal  (%s)\n",
			m.Timestamp.Format("15:04"), m.FoodName, m.Calories, m.ID)
	}
	if s := snap.Summary; s != nil {
		fmt.Printf("Total: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat over %d meals\n",
			s.TotalCalories, s.TotalProtein, s.TotalCarbs, s.TotalFat, s.MealCount)
	}
}

func (a *app) delete(ctx context.Context, id string) {
	if id == "" {
		fmt.Println("Expected a meal id")
		return
	}
	if err := a.store.Delete(ctx, id); err != nil {
		if errors.Is(err, mealstore.ErrNotFound) {
			fmt.Println("Meal not found.")
			return
		}
		fmt.Printf("Delete failed: %v\n", err)
		return
	}
	fmt.Println("Meal deleted.")
	a.views.Refresh(ctx)
	if a.views.State().Mode == viewstate.ModeHistory {
		a.renderHistory()
	}
}
