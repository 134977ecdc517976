package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shieldkit/internal/geo"
	"shieldkit/internal/health"
	"shieldkit/internal/logging"
	"shieldkit/internal/ui"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	var plain, asJSON bool
	cmd := &cobra.Command{
		Use:   "health <country>...",
		Short: "Show vaccination and health guidance for destinations",
		Long: `Shows required, recommended and optional vaccinations plus health
precautions for each destination. Countries without specific data get
general travel guidance.

Example:
  travel health Thailand "South Africa"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.healthRegistry()

			if asJSON {
				infos := make([]health.CountryInfo, 0, len(args))
				for _, name := range args {
					infos = append(infos, reg.Lookup(name))
				}
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			var md strings.Builder
			for i, name := range args {
				if i > 0 {
					md.WriteString("\n---\n\n")
				}
				md.WriteString(countryMarkdown(reg.Lookup(name)))
			}
			a.printf("%s", a.renderMarkdown(md.String(), plain))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print guidance as JSON")
	cmd.AddCommand(newHealthImportCmd(a))
	return cmd
}

// renderMarkdown renders md for the terminal, falling back to the raw text.
func (a *app) renderMarkdown(md string, plain bool) string {
	if plain {
		return md
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func countryMarkdown(info health.CountryInfo) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", info.Country)
	fmt.Fprintf(&sb, "*%s*", ui.SourceLabel(string(info.DataSource)))
	if info.LastUpdated != nil {
		fmt.Fprintf(&sb, " · updated %s", info.LastUpdated.Format("2006-01-02"))
	}
	sb.WriteString("\n\n")

	if info.YellowFeverRequired {
		sb.WriteString("> **Yellow fever vaccination certificate required for entry.**\n\n")
	}
	if info.MalariaRisk {
		sb.WriteString("> **Malaria risk:** talk to a travel clinic about prophylaxis.\n\n")
	}

	vaccines := func(title string, list []health.Vaccination) {
		if len(list) == 0 {
			return
		}
		fmt.Fprintf(&sb, "## %s\n\n", title)
		for _, v := range list {
			fmt.Fprintf(&sb, "- **%s**: %s", v.Name, v.Description)
			if v.Doses > 0 {
				fmt.Fprintf(&sb, " (%d %s)", v.Doses, plural(v.Doses, "dose", "doses"))
			}
			sb.WriteString("\n")
			for _, step := range v.DoseSchedule {
				fmt.Fprintf(&sb, "  - %s\n", step)
			}
		}
		sb.WriteString("\n")
	}
	vaccines("Required Vaccinations", info.RequiredVaccinations())
	vaccines("Recommended Vaccinations", info.RecommendedVaccinations())
	vaccines("Optional Vaccinations", info.OptionalVaccinations())

	if len(info.Precautions) > 0 {
		sb.WriteString("## Health Precautions\n\n")
		for _, p := range info.Precautions {
			fmt.Fprintf(&sb, "- **%s**", p.Title)
			if p.Severity != "" {
				fmt.Fprintf(&sb, " [%s]", p.Severity)
			}
			fmt.Fprintf(&sb, ": %s\n", p.Description)
		}
		sb.WriteString("\n")
	}

	if info.CovidRequirements != "" {
		fmt.Fprintf(&sb, "## COVID-19\n\n%s\n\n", info.CovidRequirements)
	}
	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func newHealthImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import country guidance from a YAML file",
		Long: `Validates a YAML file with a top-level "countries" list and copies it into
<home>/countries, where it is loaded on every run. Imported countries replace
built-in entries of the same name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			countries, err := health.ParseCountries(data)
			if err != nil {
				return err
			}
			if len(countries) == 0 {
				return fmt.Errorf("%s contains no countries", args[0])
			}

			dir := a.countriesDir()
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
			name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + ".yaml"
			dest := filepath.Join(dir, name)
			if err := os.WriteFile(dest, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", dest, err)
			}

			a.registry = nil
			logging.Audit(logging.CategoryHealth).Change(logging.AuditCountriesImported, dest, nil,
				map[string]interface{}{"countries": len(countries)})
			a.printf("%s %d %s into %s\n", a.styles.Success.Render("✓ Imported"),
				len(countries), plural(len(countries), "country", "countries"), dest)
			return nil
		},
	}
}

func newCountriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "countries [query]",
		Short: "List countries with specific health data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.healthRegistry()
			query := ""
			if len(args) == 1 {
				query = strings.TrimSpace(args[0])
			}
			names := reg.Countries()
			if query != "" {
				names = reg.Suggest(query)
				if names == nil && len([]rune(query)) <= 1 {
					a.println(a.styles.Muted.Render("Type at least two characters to search."))
					return nil
				}
			}
			if len(names) == 0 {
				a.printf("No countries match %q. General guidance is shown for unlisted destinations.\n", query)
				return nil
			}

			table := ui.NewSimpleTable(fmt.Sprintf("Countries (%d)", len(names)),
				[]string{"Country", "Code", "Required", "Malaria", "Source"})
			for _, name := range names {
				info := reg.Lookup(name)
				table.AddRow(info.Country, info.CountryCode,
					fmt.Sprintf("%d", len(info.RequiredVaccinations())),
					yesNo(info.MalariaRisk), ui.SourceLabel(string(info.DataSource)))
			}
			a.printf("%s", table.View(a.styles))
			return nil
		},
	}
}

func newDestinationCmd(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "destination <place>",
		Short: "Plan a trip: distance from you plus destination health guidance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			to, err := a.geocoderClient().Search(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to geocode %s: %w", args[0], err)
			}
			if to == nil {
				return fmt.Errorf("could not find %q", args[0])
			}

			trip := geo.Trip{From: a.userLocation(ctx), To: *to}
			a.println(a.styles.Title.Render(fmt.Sprintf("%s, %s → %s, %s",
				trip.From.Name, trip.From.Country, trip.To.Name, trip.To.Country)))
			a.printf("Distance: %.0f km\n\n", trip.DistanceKm())

			// Geocoders sometimes name the country in another language; the
			// typed destination may still match the table.
			reg := a.healthRegistry()
			country := to.Country
			if country == "" || country == "Unknown" || (!reg.Has(country) && reg.Has(args[0])) {
				country = args[0]
			}
			a.printf("%s", a.renderMarkdown(countryMarkdown(reg.Lookup(country)), plain))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
