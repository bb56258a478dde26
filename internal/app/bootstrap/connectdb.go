// internal/app/bootstrap/connectdb.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/app/system/timeouts"
)

// ConnectDB builds the MongoDB client and database handles.
//
// An unreachable server is NOT a startup failure: the content API keeps
// serving from the JSON fallback file, so we log the ping failure and
// carry on with a client that will retry on use. Only a malformed
// configuration (client construction error) aborts startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Warn("MongoDB unreachable at startup, continuing in fallback mode",
			zap.String("uri", appCfg.MongoURI),
			zap.Error(err))
	} else {
		logger.Info("connected to MongoDB",
			zap.String("database", appCfg.MongoDatabase))
	}

	return DBDeps{
		EduHubMongoClient:   client,
		EduHubMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}
