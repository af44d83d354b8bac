package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fridge-planner/internal/api"
	"fridge-planner/internal/config"
	"fridge-planner/internal/database"
	"fridge-planner/internal/expiry"
	"fridge-planner/internal/favorites"
	"fridge-planner/internal/logger"
	"fridge-planner/internal/metrics"
	"fridge-planner/internal/pantry"
	"fridge-planner/internal/plan"
	"fridge-planner/internal/recipe"
	"fridge-planner/internal/search"
	"fridge-planner/internal/session"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	defer logger.Close()

	cfg, err := config.NewFromEnv()
	if err != nil {
		logger.Error("failed to load configuration", zap.Error(err))
		os.Exit(1)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	sessionRepo := session.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	client := api.NewClient(cfg, sessionRepo, metricsStore)

	pantryStore := pantry.NewStore(client)
	scheduler := plan.NewScheduler(client)
	favoritesStore := favorites.NewStore(client)
	clipper := recipe.NewClipper()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	args := os.Args[2:]

	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, sessionRepo, args)
	case "logout":
		err = sessionRepo.Clear(ctx)
	case "fridge":
		err = runFridge(ctx, pantryStore, args)
	case "add":
		err = runAdd(ctx, pantryStore, args)
	case "update":
		err = runUpdate(ctx, pantryStore, args)
	case "rm":
		err = runRemove(ctx, pantryStore, args)
	case "suggest":
		err = runSuggest(ctx, client, args)
	case "categories":
		for _, c := range client.FetchCategories(ctx) {
			fmt.Println(c)
		}
	case "week":
		err = runWeek(ctx, scheduler, args)
	case "assign":
		err = runAssign(ctx, scheduler, clipper, args)
	case "unassign":
		err = runUnassign(ctx, scheduler, args)
	case "totals":
		err = runTotals(ctx, scheduler, args)
	case "favorites":
		err = runFavorites(ctx, favoritesStore)
	case "metrics-cleanup":
		err = runMetricsCleanup(metricsStore, args)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: fridge-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  login <token>      Store the API credential")
	fmt.Println("  logout             Forget the stored credential")
	fmt.Println("  fridge             List fridge contents (filters via flags)")
	fmt.Println("  add                Add an item to the fridge")
	fmt.Println("  update             Change an item's quantity or expiry date")
	fmt.Println("  rm                 Remove an item")
	fmt.Println("  suggest <text>     Autocomplete an ingredient name")
	fmt.Println("  categories         List known item categories")
	fmt.Println("  week               Show the meal plan for a week")
	fmt.Println("  assign             Put a recipe into a meal slot")
	fmt.Println("  unassign           Clear a meal slot by entry id")
	fmt.Println("  totals             Weekly nutrition totals")
	fmt.Println("  favorites          List favorited recipes")
	fmt.Println("  metrics-cleanup    Remove old request metrics")
}

func runLogin(ctx context.Context, repo *session.Repository, args []string) error {
	if len(args) < 1 || args[0] == "" {
		return fmt.Errorf("usage: login <token>")
	}
	return repo.SaveToken(ctx, args[0])
}

func runFridge(ctx context.Context, store *pantry.Store, args []string) error {
	cmd := flag.NewFlagSet("fridge", flag.ExitOnError)
	searchText := cmd.String("search", "", "filter by ingredient name")
	category := cmd.String("category", pantry.CategoryAll, "filter by category")
	sortBy := cmd.String("sort", "name", "sort order: name, expiry or quantity")
	showExpired := cmd.Bool("expired", true, "include expired items")
	showFresh := cmd.Bool("fresh", true, "include non-expired items")
	cmd.Parse(args)

	if err := store.Load(ctx); err != nil {
		return err
	}

	today := time.Now()
	groups := pantry.Apply(store.Items(), pantry.FilterState{
		Search:      *searchText,
		Category:    *category,
		SortBy:      pantry.SortBy(*sortBy),
		ShowExpired: *showExpired,
		ShowFresh:   *showFresh,
	}, today)

	stats := store.Stats()
	fmt.Printf("%d items — %d expiring within 7 days, %d expired\n", stats.Total, stats.Expiring, stats.Expired)
	for _, cat := range pantry.Categories(groups) {
		fmt.Printf("\n%s\n", strings.ToUpper(cat))
		for _, it := range groups[cat] {
			due := "—"
			if it.ExpiresOn != nil {
				due = fmt.Sprintf("%s (%s)", expiry.FormatDate(*it.ExpiresOn), expiry.Classify(it.ExpiresOn, today))
			}
			fmt.Printf("  #%d %s ×%d  %s\n", it.ID, it.Name, it.Quantity, due)
		}
	}
	return nil
}

func runAdd(ctx context.Context, store *pantry.Store, args []string) error {
	cmd := flag.NewFlagSet("add", flag.ExitOnError)
	name := cmd.String("name", "", "ingredient name")
	qty := cmd.Int("qty", 1, "quantity")
	expires := cmd.String("expires", "", "expiry date (YYYY-MM-DD)")
	category := cmd.String("category", "", "category")
	cmd.Parse(args)

	in := pantry.NewItemInput{Name: *name, Quantity: *qty, Category: *category}
	if *expires != "" {
		d, err := expiry.ParseDate(*expires)
		if err != nil {
			return fmt.Errorf("invalid expiry date %q: %w", *expires, err)
		}
		in.ExpiresOn = &d
	}

	if err := store.Add(ctx, in); err != nil {
		return err
	}
	fmt.Printf("Added %s ×%d\n", in.Name, in.Quantity)
	return nil
}

func runUpdate(ctx context.Context, store *pantry.Store, args []string) error {
	cmd := flag.NewFlagSet("update", flag.ExitOnError)
	id := cmd.Int64("id", 0, "item id")
	qty := cmd.Int("qty", -1, "new quantity (0 removes the item)")
	expires := cmd.String("expires", "", "new expiry date (YYYY-MM-DD), or 'none' to clear")
	cmd.Parse(args)

	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	// The store must see current state to detect an effective no-op patch.
	if err := store.Load(ctx); err != nil {
		return err
	}

	var patch pantry.Patch
	if *qty >= 0 {
		patch.Quantity = qty
	}
	switch *expires {
	case "":
	case "none":
		patch.SetExpiry = true
	default:
		d, err := expiry.ParseDate(*expires)
		if err != nil {
			return fmt.Errorf("invalid expiry date %q: %w", *expires, err)
		}
		patch.SetExpiry = true
		patch.ExpiresOn = &d
	}

	changed, err := store.Update(ctx, *id, patch)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Println("Nothing to update.")
		return nil
	}
	fmt.Println("Updated.")
	return nil
}

func runRemove(ctx context.Context, store *pantry.Store, args []string) error {
	cmd := flag.NewFlagSet("rm", flag.ExitOnError)
	id := cmd.Int64("id", 0, "item id")
	cmd.Parse(args)

	if *id == 0 {
		return fmt.Errorf("-id is required")
	}
	if err := store.Load(ctx); err != nil {
		return err
	}
	if err := store.Remove(ctx, *id); err != nil {
		return err
	}
	fmt.Println("Removed.")
	return nil
}

func runSuggest(ctx context.Context, client *api.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: suggest <text>")
	}

	auto := search.NewAutocomplete(client)
	done := make(chan []api.Suggestion, 1)
	auto.Query(ctx, strings.Join(args, " "), func(s []api.Suggestion) {
		done <- s
	})

	suggestions := <-done
	if len(suggestions) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}
	for _, s := range suggestions {
		fmt.Printf("#%d %s\n", s.ID, s.Name)
	}
	return nil
}

func parseWeekRef(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return expiry.ParseDate(raw)
}

func runWeek(ctx context.Context, scheduler *plan.Scheduler, args []string) error {
	cmd := flag.NewFlagSet("week", flag.ExitOnError)
	date := cmd.String("date", "", "any date inside the week to show (YYYY-MM-DD)")
	cmd.Parse(args)

	ref, err := parseWeekRef(*date)
	if err != nil {
		return err
	}
	if err := scheduler.LoadWeek(ctx, ref); err != nil {
		return err
	}

	for _, day := range scheduler.Week() {
		fmt.Printf("%s %s\n", day.Label, day.ISOKey)
		for _, meal := range plan.MealTypes {
			if entry, ok := scheduler.EntryFor(day.ISOKey, meal); ok {
				fmt.Printf("  %-10s #%d %s (%.0f kcal)\n", meal, entry.ID, entry.Recipe.Name, entry.Recipe.Calories)
			}
		}
	}
	return nil
}

func runAssign(ctx context.Context, scheduler *plan.Scheduler, clipper *recipe.Clipper, args []string) error {
	cmd := flag.NewFlagSet("assign", flag.ExitOnError)
	date := cmd.String("date", "", "slot date (YYYY-MM-DD)")
	meal := cmd.String("meal", "", "breakfast, lunch or dinner")
	allWeek := cmd.Bool("all-week", false, "repeat on every day of the week")
	url := cmd.String("url", "", "import the recipe from a web page")
	recipeID := cmd.Int64("recipe-id", 0, "recipe id")
	name := cmd.String("name", "", "recipe name")
	image := cmd.String("image", "", "recipe image URL")
	calories := cmd.Float64("calories", 0, "calories per serving")
	protein := cmd.Float64("protein", 0, "protein grams")
	carbs := cmd.Float64("carbs", 0, "carb grams")
	cmd.Parse(args)

	if *date == "" {
		return fmt.Errorf("-date is required")
	}
	mealType, err := plan.ParseMealType(*meal)
	if err != nil {
		return err
	}
	ref, err := expiry.ParseDate(*date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", *date, err)
	}

	snapshot := plan.RecipeSnapshot{
		RecipeID: *recipeID,
		Name:     *name,
		Image:    *image,
		Calories: *calories,
		Protein:  *protein,
		Carbs:    *carbs,
	}
	if *url != "" {
		clipped, err := clipper.Clip(ctx, *url)
		if err != nil {
			return fmt.Errorf("failed to import recipe: %w", err)
		}
		snapshot = *clipped
	}
	if snapshot.Name == "" {
		return fmt.Errorf("a recipe name (or -url) is required")
	}

	if err := scheduler.LoadWeek(ctx, ref); err != nil {
		return err
	}
	if err := scheduler.Assign(ctx, *date, mealType, snapshot, *allWeek); err != nil {
		return err
	}
	fmt.Printf("Planned %s for %s", snapshot.Name, mealType)
	if *allWeek {
		fmt.Print(" all week")
	}
	fmt.Println(".")
	return nil
}

func runUnassign(ctx context.Context, scheduler *plan.Scheduler, args []string) error {
	cmd := flag.NewFlagSet("unassign", flag.ExitOnError)
	id := cmd.Int64("id", 0, "plan entry id")
	date := cmd.String("date", "", "any date inside the entry's week (YYYY-MM-DD)")
	cmd.Parse(args)

	if *id == 0 {
		return fmt.Errorf("-id is required")
	}
	ref, err := parseWeekRef(*date)
	if err != nil {
		return err
	}
	if err := scheduler.LoadWeek(ctx, ref); err != nil {
		return err
	}
	if err := scheduler.Unassign(ctx, *id); err != nil {
		return err
	}
	fmt.Println("Slot cleared.")
	return nil
}

func runTotals(ctx context.Context, scheduler *plan.Scheduler, args []string) error {
	cmd := flag.NewFlagSet("totals", flag.ExitOnError)
	date := cmd.String("date", "", "any date inside the week (YYYY-MM-DD)")
	cmd.Parse(args)

	ref, err := parseWeekRef(*date)
	if err != nil {
		return err
	}
	if err := scheduler.LoadWeek(ctx, ref); err != nil {
		return err
	}

	t := scheduler.Totals()
	fmt.Printf("Meals: %d\nCalories: %.0f kcal\nProtein: %.0f g\nCarbs: %.0f g\n",
		t.TotalMeals, t.Calories, t.Protein, t.Carbs)
	return nil
}

func runFavorites(ctx context.Context, store *favorites.Store) error {
	if err := store.Load(ctx); err != nil {
		return err
	}
	recipes := store.Recipes()
	if len(recipes) == 0 {
		fmt.Println("No favorites yet.")
		return nil
	}
	for _, r := range recipes {
		fmt.Printf("#%d %s (%.0f kcal)\n", r.RecipeID, r.Name, r.Calories)
	}
	return nil
}

func runMetricsCleanup(store *metrics.Store, args []string) error {
	cmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := cmd.Int("days", 30, "keep records for the last N days")
	cmd.Parse(args)

	affected, err := store.Cleanup(*days)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d old metric records.\n", affected)
	return nil
}
