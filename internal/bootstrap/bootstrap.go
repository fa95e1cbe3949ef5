package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/auth"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/carewindow"
	appControllers "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/controllers"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/housekeeping"
	appMigrations "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/migrations"
	appRepos "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/repositories"
	appRoutes "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/routes"
	appServices "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/services"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/config"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/db"
	appMiddleware "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/middleware"
	pkgAuth "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/auth"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/email"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/filestorage"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/reports"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/validation"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	Mailer         *email.Service
	ReportStore    filestorage.ReportStore
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Housekeeping   *housekeeping.Runner
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// The returned closer releases the log file.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, nil, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	closer, err := logger.Configure(logger.Config{
		Level:     logLevel,
		Pretty:    prettyLog,
		Directory: cfg.Logging.Directory,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to configure logger")
		return nil, zerolog.Logger{}, nil, err
	}

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, closer, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, hasher pkgAuth.PasswordHasher, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Str("path", cfg.Database.MigrationsPath).Msg("Running database migrations...")
	if _, err := os.Stat(cfg.Database.MigrationsPath); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", cfg.Database.MigrationsPath, err)
	}
	migrator := appMigrations.NewMigrator(cfg.GetPostgresConnectionString(), cfg.Database.MigrationsPath, lgr)
	if err := migrator.Up(); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = seed.CreateDefaultData(ctx,
		appRepos.NewRoleRepository(database.Pool),
		appRepos.NewEmployeeRepository(database.Pool),
		hasher,
		seed.Admin{
			EmployeeID: cfg.Admin.EmployeeID,
			FirstName:  cfg.Admin.FirstName,
			LastName:   cfg.Admin.LastName,
			Password:   cfg.Admin.Password,
			Email:      cfg.Admin.Email,
		},
		lgr,
	)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create default data: %w", err)
	}

	return database, nil
}

// NewPasswordHasher builds the bcrypt hasher from configuration
func NewPasswordHasher(cfg *config.Config) pkgAuth.PasswordHasher {
	return pkgAuth.NewPasswordHasher(cfg.Security.BcryptCost)
}

// newReportStore returns the local report store, mirrored to the S3 archive when enabled.
func newReportStore(cfg *config.Config, lgr zerolog.Logger) (filestorage.ReportStore, error) {
	local, err := filestorage.NewLocalStorage(cfg.Reports.Directory, "")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report storage: %w", err)
	}
	if !cfg.Reports.Archive.Enabled {
		return local, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	archive, err := filestorage.NewS3Storage(ctx, filestorage.S3Config{
		Bucket:          cfg.Reports.Archive.Bucket,
		Endpoint:        cfg.Reports.Archive.Endpoint,
		AccountID:       cfg.Reports.Archive.AccountID,
		Region:          cfg.Reports.Archive.Region,
		AccessKeyID:     cfg.Reports.Archive.AccessKeyID,
		SecretAccessKey: cfg.Reports.Archive.SecretAccessKey,
		PublicURL:       cfg.Reports.Archive.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report archive: %w", err)
	}
	lgr.Info().Str("bucket", cfg.Reports.Archive.Bucket).Msg("Report archive enabled")
	return filestorage.NewMirroredStorage(local, archive), nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, hasher pkgAuth.PasswordHasher, lgr zerolog.Logger) (*Dependencies, error) {
	if err := validation.RegisterBindingValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database.Pool)

	schedule, err := carewindow.NewSchedule(
		cfg.Care.BeforeCareCheckInTime, cfg.Care.BeforeCareCheckOutTime,
		cfg.Care.AfterCareCheckInTime, cfg.Care.AfterCareCheckOutTime,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid care schedule: %w", err)
	}

	deps.Mailer, err = email.NewService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr.With().Str("component", "email").Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email service: %w", err)
	}

	deps.ReportStore, err = newReportStore(cfg, lgr)
	if err != nil {
		return nil, err
	}

	htmlRenderer, err := reports.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}
	pdfRenderer := reports.NewChromePDFRenderer(htmlRenderer,
		helpers.ParseDuration(cfg.Reports.PDFTimeout, 30*time.Second),
		lgr.With().Str("component", "reports").Logger())

	deps.AuthzService = appAuth.NewAuthorizationService(lgr)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 30*time.Minute),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	// Initialize services
	authService := appServices.NewAuthService(appServices.AuthDependencies{
		Employees:       deps.Repos.EmployeeRepository,
		ResetTokens:     deps.Repos.ResetTokenRepository,
		Blacklist:       deps.Repos.TokenBlacklistRepository,
		JWT:             deps.JWTService,
		Hasher:          hasher,
		Notifier:        deps.Mailer,
		ResetCodeExpiry: helpers.ParseDuration(cfg.Security.ResetCodeExpiration, 15*time.Minute),
		Logger:          lgr,
	})
	employeeService := appServices.NewEmployeeService(deps.Repos.EmployeeRepository, deps.Repos.RoleRepository, hasher, lgr)
	studentService := appServices.NewStudentService(deps.Repos.StudentRepository, deps.Repos.GradeRepository, lgr)
	gradeService := appServices.NewGradeService(deps.Repos.GradeRepository, lgr)
	timesheetService := appServices.NewTimesheetService(deps.Repos.EmployeeHoursRepository, deps.Repos.EmployeeRepository,
		deps.Mailer, cfg.Timesheet.RoundingIncrement, lgr)
	careService := appServices.NewCareService(appServices.CareDependencies{
		Care:     deps.Repos.StudentCareRepository,
		Students: deps.Repos.StudentRepository,
		Grades:   deps.Repos.GradeRepository,
		Schedule: schedule,
		Notifier: deps.Mailer,
		Logger:   lgr,
	})
	reportService := appServices.NewReportService(appServices.ReportDependencies{
		Source:              deps.Repos.ReportRepository,
		Employees:           deps.Repos.EmployeeRepository,
		Students:            deps.Repos.StudentRepository,
		Grades:              deps.Repos.GradeRepository,
		Store:               deps.ReportStore,
		PDF:                 pdfRenderer,
		Notifier:            deps.Mailer,
		Logger:              lgr,
		ExcludedEmployeeID:  cfg.Admin.EmployeeID,
		LeaveMailingAddress: cfg.LeaveRequest.MailingAddress,
		LeaveReasons:        cfg.LeaveRequest.Reasons,
	})
	systemService := appServices.NewSystemService(database, deps.Mailer, cfg.SMTP.FromEmail, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(authService)

	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(authService, deps.AuthzService, lgr),
		Employee:  appControllers.NewEmployeeController(employeeService, deps.AuthzService),
		Student:   appControllers.NewStudentController(studentService, gradeService),
		Timesheet: appControllers.NewTimesheetController(timesheetService, deps.AuthzService),
		Care:      appControllers.NewCareController(careService),
		Report:    appControllers.NewReportController(reportService, deps.AuthzService),
		Core:      appControllers.NewCoreController(systemService),
	}

	deps.Housekeeping = housekeeping.NewRunner(map[string]housekeeping.Expirer{
		"token_blacklist": deps.Repos.TokenBlacklistRepository,
		"reset_tokens":    deps.Repos.ResetTokenRepository,
	}, helpers.ParseDuration(cfg.Housekeeping.Interval, time.Hour), lgr.With().Str("component", "housekeeping").Logger())

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.Recovery(lgr), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
