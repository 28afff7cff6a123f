package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

// Swapped out in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "loantrack-cli",
		Short: "LoanTrack CLI tool",
		Long:  `A command line interface for interacting with the LoanTrack API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LoanTrack API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("LOANTRACK_TOKEN"), "Bearer token for authenticated requests")

	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(loansCmd())
	rootCmd.AddCommand(notifyCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API liveness and readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range []string{"/health", "/ready"} {
				status, body, err := apiGet(path)
				if err != nil {
					return fmt.Errorf("request %s: %w", path, err)
				}
				fmt.Printf("%s: %d %s\n", path, status, strings.TrimSpace(string(body)))
			}
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := json.Marshal(map[string]string{
				"email":    email,
				"password": password,
			})

			client := &http.Client{Timeout: timeout}
			resp, err := client.Post(baseURL+"/api/v1/auth/login", "application/json", strings.NewReader(string(payload)))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("login failed (status %d): %s", resp.StatusCode, string(body))
			}

			var result struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Println(result.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func loansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Loan operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List loans visible to the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := apiGet("/api/v1/loans/")
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("list failed (status %d): %s", status, string(body))
			}

			var result struct {
				Loans []struct {
					ID              string `json:"id"`
					BorrowerID      string `json:"borrower_id"`
					Status          string `json:"status"`
					BalanceAmount   string `json:"balance_amount"`
					NextPaymentDate string `json:"next_payment_date"`
					Overdue         bool   `json:"overdue"`
				} `json:"loans"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("%-28s %-28s %-10s %-12s %-12s %s\n", "ID", "BORROWER", "STATUS", "BALANCE", "NEXT DUE", "OVERDUE")
			for _, loan := range result.Loans {
				due := loan.NextPaymentDate
				if len(due) >= 10 {
					due = due[:10]
				}
				fmt.Printf("%-28s %-28s %-10s %-12s %-12s %v\n",
					truncate(loan.ID, 28), truncate(loan.BorrowerID, 28),
					loan.Status, loan.BalanceAmount, due, loan.Overdue)
			}
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := apiGet("/api/v1/loans/" + args[0])
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("get failed (status %d): %s", status, string(body))
			}

			var loan map[string]any
			if err := json.Unmarshal(body, &loan); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(loan)
			return nil
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(getCmd)
	return cmd
}

func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Notification operations",
	}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Trigger a notification scan without waiting for the next tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/notifications/scan", nil)
			if err != nil {
				return err
			}
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			client := &http.Client{Timeout: timeout}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusAccepted {
				return fmt.Errorf("scan failed (status %d): %s", resp.StatusCode, string(body))
			}

			fmt.Println(strings.TrimSpace(string(body)))
			return nil
		},
	}

	cmd.AddCommand(scanCmd)
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for seeding users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func apiGet(path string) (int, []byte, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, body, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
