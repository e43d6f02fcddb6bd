// Package main provides a one-shot command line front end for the nutrition
// resolution engine: resolve a single ingredient or a recipe ingredient list
// from a JSON file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appnutrition "github.com/alchemorsel/nutrition/internal/application/nutrition"
	domain "github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/infrastructure/container"
	"go.uber.org/fx"
)

type recipeFile struct {
	Ingredients []struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
	} `json:"ingredients"`
}

func main() {
	var (
		ingredient = flag.String("ingredient", "", "ingredient name to resolve")
		quantity   = flag.Float64("quantity", 100, "requested quantity")
		unit       = flag.String("unit", "g", "requested unit")
		recipePath = flag.String("recipe", "", "path to a recipe ingredients JSON file")
	)
	flag.Parse()

	if *ingredient == "" && *recipePath == "" {
		fmt.Fprintln(os.Stderr, "usage: nutrition -ingredient <name> [-quantity N] [-unit u] | -recipe <file.json>")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := fx.New(
		fx.NopLogger,
		container.Module,
		fx.Invoke(func(svc *appnutrition.Service, shutdowner fx.Shutdowner) {
			go func() {
				defer func() { _ = shutdowner.Shutdown() }()
				if err := run(ctx, svc, *ingredient, *quantity, *unit, *recipePath); err != nil {
					log.Printf("resolution failed: %v", err)
				}
			}()
		}),
	)

	startCtx, startCancel := context.WithTimeout(ctx, 15*time.Second)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	<-app.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	_ = app.Stop(stopCtx)
}

func run(ctx context.Context, svc *appnutrition.Service, ingredient string, quantity float64, unit, recipePath string) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if recipePath != "" {
		data, err := os.ReadFile(recipePath)
		if err != nil {
			return err
		}
		var rf recipeFile
		if err := json.Unmarshal(data, &rf); err != nil {
			return fmt.Errorf("parse recipe file: %w", err)
		}

		ingredients := make([]domain.IngredientRequest, len(rf.Ingredients))
		for i, ing := range rf.Ingredients {
			ingredients[i] = domain.IngredientRequest{
				Name:     ing.Name,
				Quantity: ing.Quantity,
				Unit:     ing.Unit,
			}
		}

		result, err := svc.CalculateRecipeNutrition(ctx, ingredients)
		if err != nil {
			return err
		}
		return enc.Encode(result)
	}

	res, err := svc.GetIngredientNutrition(ctx, ingredient, quantity, unit)
	if err != nil {
		return err
	}
	return enc.Encode(res)
}
