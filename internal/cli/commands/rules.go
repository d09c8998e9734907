package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/tikey/internal/cli/output"
	"github.com/leapstack-labs/tikey/pkg/rule"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group    string // Filter by group
	Describe bool   // Show descriptions
	Format   string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [uid]",
		Short: "List compatibility rules",
		Long: `List the compatibility rules in the active catalog.

The catalog is the built-in rules plus custom rules from the config file,
minus disabled rules. Severity overrides are shown as applied.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # List all rules
  tikey rules

  # Show details for one rule
  tikey rules m4

  # List rules in the special group with descriptions
  tikey rules --group special -d

  # Output as JSON
  tikey rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group: head, mid, special, custom")
	cmd.Flags().BoolVarP(&opts.Describe, "describe", "d", false, "Show descriptions")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// RuleEntry is the machine-readable form of a rule.
type RuleEntry struct {
	UID         string   `json:"uid" yaml:"uid"`
	Name        string   `json:"name" yaml:"name"`
	Group       string   `json:"group" yaml:"group"`
	Severity    string   `json:"severity" yaml:"severity"`
	Versions    string   `json:"tidb_version" yaml:"tidb_version"`
	Future      string   `json:"future_plan" yaml:"future_plan"`
	Description string   `json:"description" yaml:"description"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Trigger     string   `json:"trigger" yaml:"trigger"`
	ConfigKeys  []string `json:"config_keys,omitempty" yaml:"config_keys,omitempty"`
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []RuleEntry `json:"rules" yaml:"rules"`
	Count struct {
		Errors   int `json:"errors" yaml:"errors"`
		Warnings int `json:"warnings" yaml:"warnings"`
		Total    int `json:"total" yaml:"total"`
	} `json:"count" yaml:"count"`
}

func newRuleEntry(r rule.Rule) RuleEntry {
	return RuleEntry{
		UID:         r.UID(),
		Name:        r.Name,
		Group:       r.Group,
		Severity:    r.Info.Severity.String(),
		Versions:    r.Info.Versions.String(),
		Future:      r.Info.Future.String(),
		Description: r.Info.Description,
		URL:         r.Info.URL,
		Trigger:     describeTrigger(r.Trigger),
		ConfigKeys:  r.ConfigKeys,
	}
}

func describeTrigger(t rule.Trigger) string {
	switch t.Kind {
	case rule.KindStringElemEqual:
		return fmt.Sprintf("%s %d literals", t.Kind, len(t.Literals))
	default:
		return fmt.Sprintf("%s %s", t.Kind, t.Key)
	}
}

// rulesRenderer returns the renderer, overridden by --format when set.
func rulesRenderer(cmd *cobra.Command, cmdCtx *CommandContext, format string) (*output.Renderer, error) {
	if format == "" {
		return cmdCtx.Renderer, nil
	}
	mode, err := output.ParseMode(format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode), nil
}

func catalog(cmdCtx *CommandContext) ([]rule.Rule, error) {
	reg, err := cmdCtx.Cfg.BuildRegistry()
	if err != nil {
		return nil, err
	}
	return reg.Rules(), nil
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutChecker(cmd)
	r, err := rulesRenderer(cmd, cmdCtx, opts.Format)
	if err != nil {
		return err
	}

	all, err := catalog(cmdCtx)
	if err != nil {
		return err
	}
	var rules []rule.Rule
	for _, ru := range all {
		if opts.Group == "" || strings.EqualFold(ru.Group, opts.Group) {
			rules = append(rules, ru)
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		return listRulesStructured(r, rules)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, rules, opts.Describe)
	default:
		return listRulesText(r, rules, opts.Describe)
	}
}

func listRulesText(r *output.Renderer, rules []rule.Rule, verbose bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Compatibility Rules (%d)", len(rules))))
	r.Println("")

	currentGroup := ""
	for _, ru := range rules {
		if ru.Group != currentGroup {
			currentGroup = ru.Group
			r.Println(styles.Bold.Render("  " + groupTitle(currentGroup)))
		}
		r.Printf("    %s  %s - %s\n",
			styles.Muted.Render(fmt.Sprintf("%-3s", ru.UID())),
			ru.Name,
			severityStyle(styles, ru.Info.Severity).Render(ru.Info.Severity.String()),
		)
		if verbose {
			r.Println(styles.Muted.Render("        " + ru.Info.Description))
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'tikey rules <uid>' for details"))
	r.Println("")
	return nil
}

func listRulesMarkdown(r *output.Renderer, rules []rule.Rule, verbose bool) error {
	r.Println(output.FormatHeader(1, "Compatibility Rules"))
	r.Println("")

	currentGroup := ""
	for _, ru := range rules {
		if ru.Group != currentGroup {
			currentGroup = ru.Group
			r.Println(output.FormatHeader(2, groupTitle(currentGroup)))
			r.Println("")
		}
		r.Printf("- **%s** - %s (`%s`)\n", ru.UID(), ru.Name, ru.Info.Severity)
		if verbose {
			r.Println("  " + ru.Info.Description)
		}
	}

	r.Println("")
	return nil
}

func listRulesStructured(r *output.Renderer, rules []rule.Rule) error {
	out := RulesJSONOutput{Rules: []RuleEntry{}}
	for _, ru := range rules {
		out.Rules = append(out.Rules, newRuleEntry(ru))
		switch ru.Info.Severity {
		case rule.SeverityError:
			out.Count.Errors++
		case rule.SeverityWarning:
			out.Count.Warnings++
		}
	}
	out.Count.Total = len(rules)

	if r.EffectiveMode() == output.ModeYAML {
		return r.YAML(out)
	}
	return r.JSON(out)
}

func showRule(cmd *cobra.Command, uid string, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutChecker(cmd)
	r, err := rulesRenderer(cmd, cmdCtx, opts.Format)
	if err != nil {
		return err
	}

	reg, err := cmdCtx.Cfg.BuildRegistry()
	if err != nil {
		return err
	}
	ru, ok := reg.Lookup(strings.ToLower(uid))
	if !ok {
		return fmt.Errorf("rule %q not found", uid)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(newRuleEntry(ru))
	case output.ModeYAML:
		return r.YAML(newRuleEntry(ru))
	case output.ModeMarkdown:
		return showRuleMarkdown(r, ru)
	default:
		return showRuleText(r, ru)
	}
}

func showRuleText(r *output.Renderer, ru rule.Rule) error {
	styles := r.Styles()
	e := newRuleEntry(ru)

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", e.UID, e.Name)))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), e.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Level"), severityStyle(styles, ru.Info.Severity).Render(e.Severity))
	r.Printf("  %s: %s\n", styles.Bold.Render("TiDB version"), e.Versions)
	r.Printf("  %s: %s\n", styles.Bold.Render("Future plan"), e.Future)
	r.Printf("  %s: %s\n", styles.Bold.Render("Trigger"), e.Trigger)
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + e.Description)
	r.Println("")

	if e.URL != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("URL"), e.URL)
	}
	if len(e.ConfigKeys) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Options"), strings.Join(e.ConfigKeys, ", "))
	}
	return nil
}

func showRuleMarkdown(r *output.Renderer, ru rule.Rule) error {
	e := newRuleEntry(ru)
	r.Println(output.FormatHeader(1, fmt.Sprintf("%s - %s", e.UID, e.Name)))
	r.Println("")
	r.Println(output.FormatKeyValue("Group", e.Group))
	r.Println(output.FormatKeyValue("Level", "`"+e.Severity+"`"))
	r.Println(output.FormatKeyValue("TiDB version", e.Versions))
	r.Println(output.FormatKeyValue("Future plan", e.Future))
	if e.URL != "" {
		r.Println(output.FormatKeyValue("URL", e.URL))
	}
	if len(e.ConfigKeys) > 0 {
		r.Println(output.FormatKeyValue("Options", "`"+strings.Join(e.ConfigKeys, "`, `")+"`"))
	}
	r.Println("")
	r.Println(e.Description)
	return nil
}

func severityStyle(styles *output.Styles, sev rule.Severity) lipgloss.Style {
	switch sev {
	case rule.SeverityError:
		return styles.Error
	case rule.SeverityWarning:
		return styles.Warning
	default:
		return styles.Muted
	}
}

func groupTitle(group string) string {
	return cases.Title(language.English).String(group)
}
