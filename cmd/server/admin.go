package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"courtbook/internal/server/config"
	"courtbook/internal/server/storage"
	"courtbook/pkg/models"
	"courtbook/pkg/utils"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative commands",
	Long:  "Administrative commands for managing users, courts, and the audit log",
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account, optionally with staff privileges",
	Run:   runCreateUserCommand,
}

var addCourtCmd = &cobra.Command{
	Use:   "add-court",
	Short: "Add a court",
	Run:   runAddCourtCommand,
}

var listCourtsCmd = &cobra.Command{
	Use:   "list-courts",
	Short: "List all courts",
	Run:   runListCourtsCommand,
}

var listAuditCmd = &cobra.Command{
	Use:   "list-audit",
	Short: "Show the newest audit log entries",
	Run:   runListAuditCommand,
}

func init() {
	createUserCmd.Flags().String("username", "", "Username (required)")
	createUserCmd.Flags().String("email", "", "Email address (required)")
	createUserCmd.Flags().String("password", "", "Password (required)")
	createUserCmd.Flags().Bool("staff", false, "Grant staff privileges")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("email")
	createUserCmd.MarkFlagRequired("password")

	addCourtCmd.Flags().String("name", "", "Court name (required)")
	addCourtCmd.Flags().String("sport", "", "Sport type: badminton, tennis, or pickleball (required)")
	addCourtCmd.Flags().Bool("unavailable", false, "Create the court as unavailable")
	addCourtCmd.MarkFlagRequired("name")
	addCourtCmd.MarkFlagRequired("sport")

	listAuditCmd.Flags().Int("limit", 50, "Maximum entries to show")

	adminCmd.AddCommand(
		createUserCmd,
		addCourtCmd,
		listCourtsCmd,
		listAuditCmd,
	)
}

func openAdminDB() *storage.DB {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := storage.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	return db
}

func runCreateUserCommand(cmd *cobra.Command, args []string) {
	username, _ := cmd.Flags().GetString("username")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	staff, _ := cmd.Flags().GetBool("staff")

	if !utils.IsValidUsername(username) {
		log.Fatalf("Invalid username: %s", username)
	}
	if !utils.IsValidEmail(email) {
		log.Fatalf("Invalid email: %s", email)
	}
	if len(password) < utils.MinPasswordLength {
		log.Fatalf("Password must be at least %d characters", utils.MinPasswordLength)
	}

	db := openAdminDB()
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsStaff:      staff,
	}

	if err := storage.NewUserRepository(db).Create(context.Background(), user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	role := "user"
	if staff {
		role = "staff"
	}
	fmt.Printf("✓ Created %s account: %s (%s)\n", role, user.Username, user.ID)
}

func runAddCourtCommand(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	sport, _ := cmd.Flags().GetString("sport")
	unavailable, _ := cmd.Flags().GetBool("unavailable")

	sport = strings.ToLower(strings.TrimSpace(sport))
	if !models.IsSportType(sport) {
		log.Fatalf("Invalid sport type: %s", sport)
	}

	db := openAdminDB()
	defer db.Close()

	court := &models.Court{
		Name:        strings.TrimSpace(name),
		SportType:   sport,
		IsAvailable: !unavailable,
	}

	if err := storage.NewCourtRepository(db).Create(context.Background(), court); err != nil {
		log.Fatalf("Failed to create court: %v", err)
	}

	fmt.Printf("✓ Created court: %s [%s] (%s)\n", court.Name, court.SportType, court.ID)
}

func runListCourtsCommand(cmd *cobra.Command, args []string) {
	db := openAdminDB()
	defer db.Close()

	courts, err := storage.NewCourtRepository(db).List(context.Background())
	if err != nil {
		log.Fatalf("Failed to list courts: %v", err)
	}

	if len(courts) == 0 {
		fmt.Println("No courts configured.")
		return
	}

	fmt.Printf("Courts (%d):\n", len(courts))
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%-36s %-20s %-12s %-10s\n", "ID", "Name", "Sport", "Available")
	fmt.Println(strings.Repeat("=", 80))

	for _, c := range courts {
		available := "Yes"
		if !c.IsAvailable {
			available = "No"
		}
		fmt.Printf("%-36s %-20s %-12s %-10s\n", c.ID, c.Name, c.SportType, available)
	}
	fmt.Println(strings.Repeat("=", 80))
}

func runListAuditCommand(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	db := openAdminDB()
	defer db.Close()

	entries, err := storage.NewAuditRepository(db).ListRecent(context.Background(), limit)
	if err != nil {
		log.Fatalf("Failed to read audit log: %v", err)
	}

	if len(entries) == 0 {
		fmt.Println("Audit log is empty.")
		return
	}

	fmt.Printf("Audit log (%d):\n", len(entries))
	fmt.Println(strings.Repeat("=", 100))
	fmt.Printf("%-20s %-16s %-36s %-16s\n", "Time", "Action", "User", "IP")
	fmt.Println(strings.Repeat("=", 100))

	for _, e := range entries {
		user := "-"
		if e.UserID.Valid {
			user = e.UserID.UUID.String()
		}
		ip := "-"
		if e.IPAddress != nil {
			ip = *e.IPAddress
		}
		fmt.Printf("%-20s %-16s %-36s %-16s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Action,
			user,
			ip,
		)
	}
	fmt.Println(strings.Repeat("=", 100))
}
