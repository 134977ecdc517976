package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"shieldkit/internal/places"
	"shieldkit/internal/ui"

	"github.com/spf13/cobra"
)

func newClinicsCmd(a *app) *cobra.Command {
	var (
		radius float64
		query  string
		nearby bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "clinics",
		Short: "Find travel clinics and vaccination centres near you",
		Long: `Searches for travel health facilities around your location. By default
several travel-medicine searches run in parallel and are merged; use --query
for a single free-text search or --nearby for hospitals and wellness centres.

Requires places.api_key in config.yaml or GOOGLE_PLACES_API_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("radius") {
				radius = a.cfg.Places.DefaultRadiusKm
			}
			if radius <= 0 {
				return fmt.Errorf("--radius must be positive")
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			origin := a.userLocation(ctx)
			client := a.placesClient()

			var (
				clinics []places.Clinic
				err     error
			)
			switch {
			case nearby:
				clinics, err = client.SearchNearby(ctx, origin, radius)
			case query != "":
				clinics, err = client.SearchText(ctx, query, origin, radius)
			default:
				clinics, err = client.SearchTravelHealthFacilities(ctx, origin, radius)
			}
			if errors.Is(err, places.ErrMissingAPIKey) {
				return fmt.Errorf("%w: set places.api_key in config.yaml or GOOGLE_PLACES_API_KEY", err)
			}
			if err != nil {
				return err
			}
			// Text searches only bias towards the circle.
			clinics = places.Within(clinics, radius)

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(clinics)
			}

			if len(clinics) == 0 {
				a.printf("No facilities found within %.0f km of %s.\n", radius, origin.Name)
				return nil
			}
			table := ui.NewSimpleTable(fmt.Sprintf("Facilities near %s, %s (%d)", origin.Name, origin.Country, len(clinics)),
				[]string{"Name", "Distance", "Rating", "Phone", "Address"})
			for _, c := range clinics {
				rating := "-"
				if c.Rating != nil {
					rating = fmt.Sprintf("%.1f", *c.Rating)
				}
				table.AddRow(c.Name, fmt.Sprintf("%.1f km", c.Distance), rating, c.Phone, c.Address)
			}
			a.printf("%s", table.View(a.styles))
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&radius, "radius", 50, "Search radius in km (default: places.default_radius_km)")
	f.StringVarP(&query, "query", "q", "", "Free-text search instead of the travel health searches")
	f.BoolVar(&nearby, "nearby", false, "Search nearby hospitals and wellness centres")
	f.BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func newLocateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Show the location used for distances and clinic searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			loc := a.userLocation(ctx)
			a.println(a.styles.Title.Render(fmt.Sprintf("%s, %s", loc.Name, loc.Country)))
			a.printf("%.4f, %.4f\n", loc.Lat, loc.Lng)
			if !a.cfg.HasHomeLocation() && a.position == nil {
				a.println(a.styles.Muted.Render("Using the default location. Set location.lat/lng in config.yaml to change it."))
			}
			return nil
		},
	}
}
