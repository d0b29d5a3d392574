package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nickyhof/DuckCLI/db"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Shell holds the interactive session state
type Shell struct {
	client      *db.Client
	format      db.Format
	history     []string
	historyFile string
}

func newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive SQL shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *db.Client) error {
				shell := &Shell{
					client:      client,
					format:      db.FormatPSQL,
					history:     make([]string, 0),
					historyFile: getHistoryPath(),
				}
				shell.loadHistory()
				printBanner(client.Path)
				shell.run(cmd.Context())
				return nil
			})
		},
	}
}

func printBanner(path string) {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("duckcli v%s", Version)
	padding := bannerWidth - len(versionLine) - 2 // -2 for "  " margins
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Printf("%s%s║   DuckDB command-line client          ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Printf("Connected to: %s\n", path)
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (shell *Shell) run(ctx context.Context) {
	reader := bufio.NewReader(os.Stdin)
	var multiLineBuffer strings.Builder

	for {
		// Show prompt
		prompt := shell.getPrompt(multiLineBuffer.Len() > 0)
		fmt.Print(prompt)

		// Read input
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}

		input = strings.TrimSuffix(input, "\n")
		input = strings.TrimSuffix(input, "\r")

		// Handle empty input
		if strings.TrimSpace(input) == "" {
			continue
		}

		// Check for special commands (only when not in multi-line mode)
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(input, ".") {
			if shell.handleCommand(ctx, input) {
				continue
			}
		}

		// Multi-line support: accumulate until we see a semicolon
		multiLineBuffer.WriteString(input)

		// Check if the statement is complete (ends with ;)
		trimmed := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString(" ")
			continue
		}

		// Execute the complete statement
		query := strings.TrimSuffix(trimmed, ";")
		multiLineBuffer.Reset()

		if strings.TrimSpace(query) == "" {
			continue
		}

		// Add to history
		shell.addToHistory(query + ";")

		// Execute SQL
		result, err := shell.client.Execute(ctx, query)
		if err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		} else {
			displayResult(result, shell.format)
		}
	}
}

func (shell *Shell) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s   ...>%s ", PromptColor, ResetColor)
	}
	return fmt.Sprintf("%sduckcli>%s ", PromptColor, ResetColor)
}

func (shell *Shell) handleCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))

	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
		shell.saveHistory()
		os.Exit(0)

	case ".help", ".h", ".?":
		shell.printHelp()

	case ".tables":
		result, err := shell.client.ShowTables(ctx)
		if err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			return true
		}
		result.Fprint(os.Stdout, shell.format)

	case ".schema", ".describe":
		if len(parts) > 1 {
			result, err := shell.client.DescribeTable(ctx, parts[1])
			if err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
				return true
			}
			result.Fprint(os.Stdout, shell.format)
		} else {
			fmt.Printf("%s✗ Usage: .schema <table>%s\n", ErrorColor, ResetColor)
		}

	case ".format":
		if len(parts) > 1 {
			format, err := db.ParseFormat(parts[1])
			if err != nil {
				fmt.Printf("%s✗ %v%s\n", ErrorColor, err, ResetColor)
				return true
			}
			shell.format = format
			fmt.Printf("%s✓ Format set to %s%s\n", SuccessColor, format, ResetColor)
		} else {
			fmt.Printf("Current format: %s\n", shell.format)
		}

	case ".import":
		if len(parts) > 1 {
			if err := shell.importFile(ctx, parts[1]); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .import <file.sql>%s\n", ErrorColor, ResetColor)
		}

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".history":
		shell.printHistory()

	case ".version":
		fmt.Printf("duckcli version %s\n", Version)

	default:
		fmt.Printf("%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return true
}

func (shell *Shell) printHelp() {
	fmt.Println()
	fmt.Printf("%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  .help, .h        Show this help message")
	fmt.Println("  .quit, .exit     Exit the shell")
	fmt.Println("  .tables          List all tables")
	fmt.Println("  .schema <table>  Show the schema of a table")
	fmt.Println("  .format [style]  Show or set the output format")
	fmt.Println("  .import <file>   Execute SQL statements from a file")
	fmt.Println("  .history         Show command history")
	fmt.Println("  .clear           Clear the screen")
	fmt.Println("  .version         Show version info")
	fmt.Println()
	fmt.Printf("%s%sSQL:%s any statement DuckDB accepts, terminated by ;\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%sFormats:%s psql, grid, simple, plain, markdown\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
}

func (shell *Shell) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(shell.history) > 0 && shell.history[len(shell.history)-1] == cmd {
		return
	}
	shell.history = append(shell.history, cmd)

	// Limit history size
	if len(shell.history) > 1000 {
		shell.history = shell.history[len(shell.history)-1000:]
	}
}

func (shell *Shell) printHistory() {
	if len(shell.history) == 0 {
		fmt.Println("No command history")
		return
	}

	start := 0
	if len(shell.history) > 20 {
		start = len(shell.history) - 20
	}

	for i := start; i < len(shell.history); i++ {
		fmt.Printf("  %3d  %s\n", i+1, shell.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".duckcli_history")
}

func (shell *Shell) loadHistory() {
	if shell.historyFile == "" {
		return
	}

	file, err := os.Open(shell.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		shell.history = append(shell.history, scanner.Text())
	}
}

func (shell *Shell) saveHistory() {
	if shell.historyFile == "" {
		return
	}

	file, err := os.Create(shell.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	// Save last 1000 entries
	start := 0
	if len(shell.history) > 1000 {
		start = len(shell.history) - 1000
	}

	for i := start; i < len(shell.history); i++ {
		_, _ = file.WriteString(shell.history[i] + "\n")
	}
}

// importFile reads and executes SQL statements from a file
func (shell *Shell) importFile(ctx context.Context, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	statements := db.SplitStatements(string(data))

	successCount := 0
	errorCount := 0

	for i, stmt := range statements {
		result, err := shell.client.Execute(ctx, stmt)
		if err != nil {
			fmt.Printf("%s[%d] ✗ %s%s\n", ErrorColor, i+1, truncate(stmt, 50), ResetColor)
			fmt.Printf("      Error: %v\n", err)
			errorCount++
			continue
		}

		successCount++
		// Compact output based on result type
		switch r := result.(type) {
		case db.ExecResult:
			detail := ""
			if r.RowsAffected > 0 {
				detail = fmt.Sprintf(" (%d affected)", r.RowsAffected)
			}
			fmt.Printf("%s[%d] ✓ %s%s%s\n", SuccessColor, i+1, truncate(stmt, 50), detail, ResetColor)
		case db.QueryResult:
			fmt.Printf("%s[%d] ✓ %s (%d rows)%s\n", SuccessColor, i+1, truncate(stmt, 50), r.RecordsRead, ResetColor)
		default:
			fmt.Printf("%s[%d] ✓ %s%s\n", SuccessColor, i+1, truncate(stmt, 50), ResetColor)
		}
	}

	fmt.Printf("\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, successCount, errorCount, ResetColor)

	return nil
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
