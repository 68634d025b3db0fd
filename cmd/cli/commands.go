package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var (
	leaderboardMode string
	playerName      string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(adminLoginCmd)

	authCmd.Flags().StringVar(&playerName, "name", "", "Display name for the player")
	leaderboardCmd.Flags().StringVar(&leaderboardMode, "mode", "player", "Leaderboard mode: player or archive")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", "")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", "")
	},
}

var authCmd = &cobra.Command{
	Use:   "auth <playerId>",
	Short: "Issue a player bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := playerName
		if name == "" {
			name = args[0]
		}
		body := fmt.Sprintf(`{"playerId":%q,"playerName":%q}`, args[0], name)
		return performRequest(http.MethodPost, "/api/v2/auth/player", body)
	},
}

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List the available maps",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/v2/maps", "")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <mapId> <dimensionId>",
	Short: "Show a page of a dimension's leaderboard",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := fmt.Sprintf("/api/v2/maps/%s/leaderboard/%s?mode=%s", args[0], args[1], leaderboardMode)
		return performRequest(http.MethodGet, endpoint, "")
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank <mapId> <dimensionId>",
	Short: "Show my rank in a dimension",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := fmt.Sprintf("/api/v2/maps/%s/leaderboard/%s/me", args[0], args[1])
		return performRequest(http.MethodGet, endpoint, "")
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <archiveId> <dimensionId> <value>",
	Short: "Submit a single dimension score for an archive",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"scores":[{"dimensionId":%q,"value":%s}]}`, args[1], args[2])
		endpoint := fmt.Sprintf("/api/v2/archives/%s/scores", args[0])
		return performRequest(http.MethodPost, endpoint, body)
	},
}

var adminLoginCmd = &cobra.Command{
	Use:   "admin-login <username> <password>",
	Short: "Log in as an admin account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"username":%q,"password":%q}`, args[0], args[1])
		return performRequest(http.MethodPost, "/api/admin/login", body)
	},
}

func performRequest(method, endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
