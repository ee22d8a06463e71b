package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/config"
	"github.com/oksasatya/farm-registry/pkg/fieldcrypt"
	"github.com/oksasatya/farm-registry/pkg/helpers"
	"github.com/oksasatya/farm-registry/pkg/metrics"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	codec      *fieldcrypt.AESCodec
	collector  *metrics.Collector

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetCodec(c *fieldcrypt.AESCodec)         { codec = c }
func GetCodec() *fieldcrypt.AESCodec          { return codec }
func SetMetrics(m *metrics.Collector)         { collector = m }
func GetMetrics() *metrics.Collector          { return collector }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }

// GetRabbitPub returns nil when events are disabled or the broker was
// unreachable at startup.
func GetRabbitPub() *helpers.RabbitPublisher { return rabbitPub }
func SetES(c *elasticsearch.Client)          { esClient = c }
func GetES() *elasticsearch.Client           { return esClient }
