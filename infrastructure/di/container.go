package di

import (
	"context"
	"fmt"
	"net/http"

	"phonebook-backend/application/ports"
	"phonebook-backend/application/services"
	"phonebook-backend/infrastructure/config"
	"phonebook-backend/infrastructure/persistence/dynamodb"
	gql "phonebook-backend/interfaces/graphql"
	"phonebook-backend/interfaces/http/middleware"
	"phonebook-backend/pkg/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

// Container holds the wired application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	DynamoDBClient *awsdynamodb.Client
	PersonRepo     ports.PersonRepository
	UserRepo       ports.UserRepository

	JWTManager *auth.JWTManager

	DirectoryService *services.DirectoryService
	AccountService   *services.AccountService

	Schema  *graphql.Schema
	Session func(next http.Handler) http.Handler
}

// InitializeContainer wires the application dependencies
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := ProvideDynamoDBClient(awsCfg)
	personRepo := ProvidePersonRepository(client, cfg, logger)
	userRepo := ProvideUserRepository(client, personRepo, cfg, logger)

	jwtManager, err := auth.NewJWTManager(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}

	directoryService := services.NewDirectoryService(personRepo, logger)
	accountService := services.NewAccountService(userRepo, personRepo, jwtManager, logger)

	schema, err := graphql.ParseSchema(gql.Schema, gql.NewResolver(directoryService, accountService))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	return &Container{
		Config:           cfg,
		Logger:           logger,
		DynamoDBClient:   client,
		PersonRepo:       personRepo,
		UserRepo:         userRepo,
		JWTManager:       jwtManager,
		DirectoryService: directoryService,
		AccountService:   accountService,
		Schema:           schema,
		Session:          middleware.Session(jwtManager, userRepo, logger),
	}, nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvidePersonRepository creates a person repository
func ProvidePersonRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PersonRepository {
	return dynamodb.NewPersonRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideUserRepository creates a user repository
func ProvideUserRepository(client *awsdynamodb.Client, personRepo ports.PersonRepository, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, personRepo, logger)
}
