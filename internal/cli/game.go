package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGamePlayCmd())
	cmd.AddCommand(newGameTimeoutCmd())
	cmd.AddCommand(newGameHistoryCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var (
		maxPlayers int
		timeLimit  int
		language   string
		winPoints  int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game room",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := map[string]any{}
			if cmd.Flags().Changed("max-players") {
				settings["max_players"] = maxPlayers
			}
			if cmd.Flags().Changed("time-limit") {
				settings["time_limit"] = timeLimit
			}
			if cmd.Flags().Changed("language") {
				settings["language"] = language
			}
			if cmd.Flags().Changed("win-points") {
				settings["win_points"] = winPoints
			}

			var req any
			if len(settings) > 0 {
				req = map[string]any{"settings": settings}
			}

			var result Game
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxPlayers, "max-players", 4, "Maximum number of players")
	cmd.Flags().IntVar(&timeLimit, "time-limit", 30, "Seconds per turn")
	cmd.Flags().StringVar(&language, "language", "vi", "Game language")
	cmd.Flags().IntVar(&winPoints, "win-points", 1000, "Score needed to win")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <game-id>",
		Short: "Join a waiting game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/join", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <game-id>",
		Short: "Start the game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/start", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamePlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <game-id> <word>",
		Short: "Play a word on your turn",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"word": args[1]}
			var result Game

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/words", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameTimeoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeout <game-id>",
		Short: "Skip the current player after the time limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/timeout", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <game-id>",
		Short: "Show the word history for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result WordHistory

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/words", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
