package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/superjcd/gohltv/parser"
)

var (
	days         int
	minRating    int
	offset       int
	maxItems     int
	year         int
	onlyToday    bool
	onlyFeatured bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Print the raw content of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := builder.Client()
		if err != nil {
			return err
		}
		content, err := client.FetchPage(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Live and upcoming matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := builder.Client()
		if err != nil {
			return err
		}
		live, err := client.LiveMatches(cmd.Context())
		if err != nil {
			return err
		}
		upcoming, err := client.UpcomingMatches(cmd.Context(), days, minRating)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"live": live, "upcoming": upcoming})
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <id> <team1> <team2> <event>",
	Short: "Score, maps and player stats of a match",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := builder.Client()
		if err != nil {
			return err
		}
		info, err := client.MatchInfo(cmd.Context(), args[0], args[1], args[2], args[3])
		if err != nil {
			return err
		}
		return printJSON(info)
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results [event-id]",
	Short: "Featured results, or the results of one event",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := builder.Client()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			results, err := client.EventResults(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(results)
		}
		results, err := client.BigResults(cmd.Context(), offset)
		if err != nil {
			return err
		}
		return printJSON(results)
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Ongoing and upcoming big events",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := builder.Client()
		if err != nil {
			return err
		}
		events, err := client.Events(cmd.Context(), maxItems)
		if err != nil {
			return err
		}
		return printJSON(events)
	},
}

var eventCmd = &cobra.Command{
	Use:   "event <id> <title>",
	Short: "Overview and matches of an event",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := builder.Client()
		if err != nil {
			return err
		}
		info, err := client.EventInfo(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		matches, err := client.EventMatches(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"info": info, "matches": matches})
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "World ranking of this week",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := builder.Client()
		if err != nil {
			return err
		}
		teams, err := client.TopTeams(cmd.Context(), maxItems)
		if err != nil {
			return err
		}
		return printJSON(teams)
	},
}

var teamCmd = &cobra.Command{
	Use:   "team <id> <title>",
	Short: "Roster, ranking and trophies of a team",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("team id %q is not a number", args[0])
		}
		client, err := builder.Client()
		if err != nil {
			return err
		}
		info, err := client.TeamInfo(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(info)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Best rated players of a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := builder.Client()
		if err != nil {
			return err
		}
		players, err := client.BestPlayers(cmd.Context(), maxItems, year)
		if err != nil {
			return err
		}
		return printJSON(players)
	},
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Front page news headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := builder.Client()
		if err != nil {
			return err
		}
		news, err := client.News(cmd.Context(), parser.NewsOptions{
			MaxRegular:   maxItems,
			OnlyToday:    onlyToday,
			OnlyFeatured: onlyFeatured,
		})
		if err != nil {
			return err
		}
		return printJSON(news)
	},
}

func init() {
	matchesCmd.Flags().IntVar(&days, "days", 1, "number of match days")
	matchesCmd.Flags().IntVar(&minRating, "min-rating", 0, "minimum star rating")
	resultsCmd.Flags().IntVar(&offset, "offset", 0, "results page offset")
	for _, cmd := range []*cobra.Command{eventsCmd, teamsCmd, playersCmd, newsCmd} {
		cmd.Flags().IntVar(&maxItems, "max", -1, "maximum number of entries, -1 for all")
	}
	playersCmd.Flags().IntVar(&year, "year", 0, "stats year, current year when 0")
	newsCmd.Flags().BoolVar(&onlyToday, "today", false, "only today's news")
	newsCmd.Flags().BoolVar(&onlyFeatured, "featured", false, "only featured news")

	rootCmd.AddCommand(fetchCmd, matchesCmd, matchCmd, resultsCmd, eventsCmd, eventCmd,
		teamsCmd, teamCmd, playersCmd, newsCmd)
}
