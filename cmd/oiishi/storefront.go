package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oiishi/storefront"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSpinCmd(a *app) *cobra.Command {
	var (
		email   string
		state   string
		dismiss bool
	)
	cmd := &cobra.Command{
		Use:   "spin",
		Short: "Spin the discount wheel once",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fixtures()
			if err != nil {
				return err
			}
			if state == "" {
				if state, err = storefront.DefaultPlayStorePath(); err != nil {
					return fmt.Errorf("locate play state: %w", err)
				}
			}
			w := storefront.NewWheel(f.Wheel, storefront.WithPlayStore(storefront.NewFilePlayStore(state)))
			out := cmd.OutOrStdout()

			if !w.ShouldOpen() {
				if last := w.LastResult(); last != "" {
					writeLine(out, "Already played: %s off.", last)
				} else {
					writeLine(out, "The wheel was dismissed.")
				}
				return nil
			}
			if dismiss {
				return w.Dismiss()
			}

			res, err := w.Spin(email)
			if err != nil {
				if msg := storefront.SpinMessage(err); msg != "" {
					writeLine(out, "%s", msg)
				}
				return err
			}
			a.logger.Info("wheel spun", zap.String("discount", res.Discount.Label))
			writeLine(out, "You won %s off! Use code %s at checkout.", res.Discount.Label, res.Code)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address to enter")
	cmd.Flags().StringVar(&state, "state", "", "play state file (default in the user config dir)")
	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "close the wheel without playing")
	return cmd
}

func newShopCmd(a *app) *cobra.Command {
	var (
		pack      string
		purchase  string
		frequency int
	)
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "List packs and quote a purchase",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fixtures()
			if err != nil {
				return err
			}
			q, err := f.Shop.Quote(pack, purchase, frequency)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, p := range f.Shop.Packs {
				marker := " "
				if p.ID == q.Pack.ID {
					marker = "*"
				}
				_, _ = fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", marker, p.ID, p.Label,
					storefront.FormatPrice(p.Price), p.Badge)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			writeLine(out, "")
			if q.PurchaseType == storefront.PurchaseSubscribe {
				writeLine(out, "%s, subscribe & save %s, %s: %s", q.Pack.Label, q.SavingsLabel,
					strings.ToLower(q.Frequency.Label), q.PriceText())
				return nil
			}
			writeLine(out, "%s, one-time: %s (subscribe for %s)", q.Pack.Label, q.PriceText(),
				storefront.FormatPrice(q.SubscriptionPrice))
			return nil
		},
	}
	cmd.Flags().StringVar(&pack, "pack", "", "pack id (default from fixtures)")
	cmd.Flags().StringVar(&purchase, "type", storefront.PurchaseOneTime, "one-time or subscribe")
	cmd.Flags().IntVar(&frequency, "frequency", 0, "subscription interval in days")
	return cmd
}

func newReviewsCmd(a *app) *cobra.Command {
	var sortBy, rating string
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "List customer reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fixtures()
			if err != nil {
				return err
			}
			reviews, err := storefront.Reviews(f.Reviews, sortBy, rating)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			writeLine(out, "%.1f out of 5 (%d reviews)", storefront.AverageRating(f.Reviews), len(f.Reviews))
			for _, r := range reviews {
				writeLine(out, "\n%s %s\n%s, %s\n%s", strings.Repeat("★", r.Rating), r.Title, r.Name, r.Date, r.Body)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", storefront.SortRecent, "recent or rating")
	cmd.Flags().StringVar(&rating, "rating", storefront.FilterAll, "all or a star count")
	return cmd
}

func newRecipesCmd(a *app) *cobra.Command {
	var (
		filter   storefront.RecipeFilter
		featured bool
		options  bool
	)
	cmd := &cobra.Command{
		Use:   "recipes [slug]",
		Short: "Browse recipes, or show one by slug",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fixtures()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch {
			case len(args) == 1:
				r, err := storefront.RecipeBySlug(f.Recipes, args[0])
				if err != nil {
					return err
				}
				writeRecipe(out, r)
				return nil
			case options:
				o := storefront.Options(f.Recipes)
				writeLine(out, "product:  %s", strings.Join(o.Products, ", "))
				writeLine(out, "protein:  %s", strings.Join(o.Proteins, ", "))
				writeLine(out, "meal:     %s", strings.Join(o.Meals, ", "))
				writeLine(out, "occasion: %s", strings.Join(o.Occasions, ", "))
				writeLine(out, "use:      %s", strings.Join(o.Uses, ", "))
				writeLine(out, "tag:      %s", strings.Join(o.Tags, ", "))
				return nil
			}

			recipes := f.Recipes
			if featured {
				recipes = storefront.FeaturedRecipes(recipes)
			}
			recipes = storefront.FilterRecipes(recipes, filter)
			if len(recipes) == 0 {
				writeLine(out, "No recipes match those filters.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range recipes {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d min\n", r.Slug, r.Title, r.Product, r.TotalTime())
			}
			return tw.Flush()
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&filter.Product, "product", storefront.FilterAll, "sauce product")
	flags.StringVar(&filter.Protein, "protein", storefront.FilterAll, "protein")
	flags.StringVar(&filter.Meal, "meal", storefront.FilterAll, "meal type")
	flags.StringVar(&filter.Occasion, "occasion", storefront.FilterAll, "occasion")
	flags.StringVar(&filter.Use, "use", storefront.FilterAll, "sauce use, e.g. marinade")
	flags.StringVar(&filter.Tag, "tag", storefront.FilterAll, "tag")
	flags.BoolVar(&featured, "featured", false, "featured recipes only")
	flags.BoolVar(&options, "options", false, "list the values of each filter")
	return cmd
}

func writeRecipe(w io.Writer, r storefront.Recipe) {
	writeLine(w, "%s", r.Title)
	writeLine(w, "%s · %s · %s · %s", r.Product, r.Protein, r.MealType, r.Occasion)
	writeLine(w, "prep %d min, cook %d min, serves %d", r.Prep, r.Cook, r.Serves)
	writeLine(w, "\n%s", r.Description)
	if len(r.Uses) > 0 {
		writeLine(w, "\nuses:  %s", strings.Join(r.Uses, ", "))
	}
	if len(r.Pairs) > 0 {
		writeLine(w, "pairs: %s", strings.Join(r.Pairs, ", "))
	}
	if r.ChefTips != "" {
		writeLine(w, "\nchef's tip: %s", r.ChefTips)
	}
}
