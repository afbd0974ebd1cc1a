package app

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"
	"github.com/go-resty/resty/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/nikolayk812/nexus-cart/internal/client/http/mailer"
	"github.com/nikolayk812/nexus-cart/internal/closer"
	"github.com/nikolayk812/nexus-cart/internal/config"
	"github.com/nikolayk812/nexus-cart/internal/converter"
	"github.com/nikolayk812/nexus-cart/internal/kafka"
	"github.com/nikolayk812/nexus-cart/internal/kafka/consumer"
	"github.com/nikolayk812/nexus-cart/internal/kafka/middleware"
	"github.com/nikolayk812/nexus-cart/internal/kafka/producer"
	"github.com/nikolayk812/nexus-cart/internal/logger"
	"github.com/nikolayk812/nexus-cart/internal/migrator"
	"github.com/nikolayk812/nexus-cart/internal/port"
	"github.com/nikolayk812/nexus-cart/internal/repository"
	"github.com/nikolayk812/nexus-cart/internal/service/cart"
	"github.com/nikolayk812/nexus-cart/internal/service/catalog"
	occonsumer "github.com/nikolayk812/nexus-cart/internal/service/consumer/order_created"
	"github.com/nikolayk812/nexus-cart/internal/service/notification"
	"github.com/nikolayk812/nexus-cart/internal/service/order"
	ordproducer "github.com/nikolayk812/nexus-cart/internal/service/producer/order"
	"github.com/nikolayk812/nexus-cart/internal/service/wishlist"
	"github.com/nikolayk812/nexus-cart/internal/session"
	cartv1 "github.com/nikolayk812/nexus-cart/internal/transport/http/cart/v1"
)

type Converter interface {
	ordproducer.Converter
	occonsumer.OrderCreatedConverter
}

type CartService interface {
	cartv1.CartService
	session.Reconciler
}

type OrderCreatedConsumer interface {
	RunOrderCreatedConsume(ctx context.Context) error
}

type di struct {
	dbPool   *pgxpool.Pool
	migrator *migrator.Migrator

	mongo     *mongo.Client
	products  *mongo.Collection
	wishlists *mongo.Collection

	cartRepository    port.CartRepository
	orderRepository   port.OrderRepository
	productRepository  port.ProductRepository
	wishlistRepository port.WishlistRepository
	localCartStore     port.LocalCartStore

	conv Converter

	syncProducer        sarama.SyncProducer
	orderCreatedSender  kafka.Producer
	orderEventPublisher port.OrderEventPublisher

	consumerGroup        sarama.ConsumerGroup
	orderCreatedKafka    kafka.Consumer
	orderCreatedConsumer OrderCreatedConsumer

	mailer       notification.Mailer
	notification occonsumer.OrderCreatedNotifier

	cartService     CartService
	orderService    cartv1.OrderService
	catalogService  cartv1.CatalogService
	wishlistService cartv1.WishlistService
	tracker         *session.Tracker

	cartHandler     *cartv1.Handler
	adminHandler    *cartv1.AdminHandler
	wishlistHandler *cartv1.WishlistHandler

	router *chi.Mux
}

func NewDI() *di { return &di{} }

func (d *di) DBPool(ctx context.Context) *pgxpool.Pool {
	if d.dbPool == nil {
		pool, err := pgxpool.New(ctx, config.C().Postgres.DSN())
		if err != nil {
			panic(fmt.Sprintf("failed to create pg pool: %v\n", err))
		}

		closer.AddNamed("PGX Pool",
			func(ctx context.Context) error {
				pool.Close()
				return nil
			})

		if err := pool.Ping(ctx); err != nil {
			panic(fmt.Sprintf("failed to ping db: %v\n", err))
		}

		d.dbPool = pool
	}

	return d.dbPool
}

func (d *di) Migrator(ctx context.Context) *migrator.Migrator {
	if d.migrator == nil {
		d.migrator = migrator.NewMigrator(
			stdlib.OpenDBFromPool(d.DBPool(ctx)),
			config.C().Postgres.MigrationDirectory(),
		)

		closer.AddNamed("Migrator",
			func(ctx context.Context) error {
				return d.migrator.Close()
			})
	}

	return d.migrator
}

func (d *di) MongoDB(ctx context.Context) *mongo.Client {
	if d.mongo == nil {
		client, err := mongo.Connect(
			options.Client().ApplyURI(config.C().Mongo.DSN()),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create mongodb client: %v\n", err))
		}

		closer.AddNamed("Mongo Client",
			func(ctx context.Context) error {
				return client.Disconnect(ctx)
			})

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			panic(fmt.Sprintf("failed to ping mongodb: %v\n", err))
		}

		d.mongo = client
	}

	return d.mongo
}

func (d *di) ProductsCollection(ctx context.Context) *mongo.Collection {
	if d.products == nil {
		cfg := config.C().Mongo
		d.products = d.MongoDB(ctx).
			Database(cfg.DatabaseName()).
			Collection(cfg.ProductsCollection())
	}

	return d.products
}

func (d *di) WishlistsCollection(ctx context.Context) *mongo.Collection {
	if d.wishlists == nil {
		cfg := config.C().Mongo
		d.wishlists = d.MongoDB(ctx).
			Database(cfg.DatabaseName()).
			Collection(cfg.WishlistsCollection())
	}

	return d.wishlists
}

func (d *di) CartRepository(ctx context.Context) port.CartRepository {
	if d.cartRepository == nil {
		d.cartRepository = repository.NewCart(d.DBPool(ctx))
	}

	return d.cartRepository
}

func (d *di) OrderRepository(ctx context.Context) port.OrderRepository {
	if d.orderRepository == nil {
		d.orderRepository = repository.NewOrder(d.DBPool(ctx))
	}

	return d.orderRepository
}

func (d *di) ProductRepository(ctx context.Context) port.ProductRepository {
	if d.productRepository == nil {
		d.productRepository = repository.NewProduct(d.ProductsCollection(ctx))
	}

	return d.productRepository
}

func (d *di) WishlistRepository(ctx context.Context) port.WishlistRepository {
	if d.wishlistRepository == nil {
		d.wishlistRepository = repository.NewWishlist(d.WishlistsCollection(ctx))
	}

	return d.wishlistRepository
}

func (d *di) LocalCartStore(_ context.Context) port.LocalCartStore {
	if d.localCartStore == nil {
		d.localCartStore = repository.NewLocalCartStore()
	}

	return d.localCartStore
}

func (d *di) KafkaConverter(_ context.Context) Converter {
	if d.conv == nil {
		d.conv = converter.NewKafkaConverter()
	}

	return d.conv
}

func (d *di) SyncProducer(_ context.Context) sarama.SyncProducer {
	if d.syncProducer == nil {
		cfg := config.C()

		p, err := sarama.NewSyncProducer(
			cfg.Kafka.Brokers(),
			cfg.Kafka.OrderCreatedProducerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create sync producer: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka sync producer", func(ctx context.Context) error {
			return p.Close()
		})

		d.syncProducer = p
	}

	return d.syncProducer
}

func (d *di) OrderCreatedSender(ctx context.Context) kafka.Producer {
	if d.orderCreatedSender == nil {
		d.orderCreatedSender = producer.NewProducer(
			d.SyncProducer(ctx),
			config.C().Kafka.OrderCreatedTopic(),
			logger.L(),
		)
	}

	return d.orderCreatedSender
}

func (d *di) OrderEventPublisher(ctx context.Context) port.OrderEventPublisher {
	if d.orderEventPublisher == nil {
		d.orderEventPublisher = ordproducer.NewOrderProducer(
			d.OrderCreatedSender(ctx),
			d.KafkaConverter(ctx),
		)
	}

	return d.orderEventPublisher
}

func (d *di) ConsumerGroup(_ context.Context) sarama.ConsumerGroup {
	if d.consumerGroup == nil {
		cfg := config.C()

		group, err := sarama.NewConsumerGroup(
			cfg.Kafka.Brokers(),
			cfg.Kafka.OrderCreatedConsumerGroupID(),
			cfg.Kafka.OrderCreatedConsumerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create consumer group: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka consumer group", func(ctx context.Context) error {
			return group.Close()
		})

		d.consumerGroup = group
	}

	return d.consumerGroup
}

func (d *di) OrderCreatedKafkaConsumer(ctx context.Context) kafka.Consumer {
	if d.orderCreatedKafka == nil {
		d.orderCreatedKafka = consumer.NewConsumer(
			d.ConsumerGroup(ctx),
			[]string{
				config.C().Kafka.OrderCreatedTopic(),
			},
			logger.L(),
			middleware.Recovery(logger.L()),
			middleware.Logging(logger.L()),
		)
	}

	return d.orderCreatedKafka
}

func (d *di) Mailer(_ context.Context) notification.Mailer {
	if d.mailer == nil {
		cfg := config.C().Mailer

		d.mailer = mailer.NewClient(
			resty.New().SetTimeout(cfg.Timeout()),
			mailer.Config{
				Endpoint:   cfg.Endpoint(),
				ServiceID:  cfg.ServiceID(),
				TemplateID: cfg.TemplateID(),
				PublicKey:  cfg.PublicKey(),
			},
		)
	}

	return d.mailer
}

func (d *di) NotificationService(ctx context.Context) occonsumer.OrderCreatedNotifier {
	if d.notification == nil {
		d.notification = notification.NewNotificationService(d.Mailer(ctx))
	}

	return d.notification
}

func (d *di) OrderCreatedConsumer(ctx context.Context) OrderCreatedConsumer {
	if d.orderCreatedConsumer == nil {
		d.orderCreatedConsumer = occonsumer.NewOrderCreatedConsumer(
			d.OrderCreatedKafkaConsumer(ctx),
			d.KafkaConverter(ctx),
			d.NotificationService(ctx),
		)
	}

	return d.orderCreatedConsumer
}

func (d *di) CartService(ctx context.Context) CartService {
	if d.cartService == nil {
		cfg := config.C()

		d.cartService = cart.NewCartService(
			d.CartRepository(ctx),
			d.LocalCartStore(ctx),
			d.ProductRepository(ctx),
			d.OrderRepository(ctx),
			d.OrderEventPublisher(ctx),
			cart.Config{
				TaxRate:      cfg.Cart.TaxRate(),
				Currency:     cfg.Cart.Currency(),
				ReadTimeout:  cfg.Server.DBReadTimeout(),
				WriteTimeout: cfg.Server.DBWriteTimeout(),
				ClearRetries: cfg.Cart.ClearRetries(),
				ClearBackoff: cfg.Cart.ClearBackoff(),
			},
		)
	}

	return d.cartService
}

func (d *di) OrderService(ctx context.Context) cartv1.OrderService {
	if d.orderService == nil {
		d.orderService = order.NewOrderService(
			d.OrderRepository(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.orderService
}

func (d *di) CatalogService(ctx context.Context) cartv1.CatalogService {
	if d.catalogService == nil {
		d.catalogService = catalog.NewCatalogService(
			d.ProductRepository(ctx),
			config.C().Cart.Currency(),
			config.C().Server.DBReadTimeout(),
		)
	}

	return d.catalogService
}

func (d *di) WishlistService(ctx context.Context) cartv1.WishlistService {
	if d.wishlistService == nil {
		d.wishlistService = wishlist.NewWishlistService(
			d.WishlistRepository(ctx),
			d.ProductRepository(ctx),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.wishlistService
}

func (d *di) SessionTracker(ctx context.Context) *session.Tracker {
	if d.tracker == nil {
		d.tracker = session.NewTracker(d.CartService(ctx), d.CartService(ctx))
	}

	return d.tracker
}

func (d *di) CartHandler(ctx context.Context) *cartv1.Handler {
	if d.cartHandler == nil {
		d.cartHandler = cartv1.NewHandler(
			d.CartService(ctx),
			d.SessionTracker(ctx),
			d.CatalogService(ctx),
		)
	}

	return d.cartHandler
}

func (d *di) AdminHandler(ctx context.Context) *cartv1.AdminHandler {
	if d.adminHandler == nil {
		d.adminHandler = cartv1.NewAdminHandler(d.OrderService(ctx), d.CatalogService(ctx))
	}

	return d.adminHandler
}

func (d *di) WishlistHandler(ctx context.Context) *cartv1.WishlistHandler {
	if d.wishlistHandler == nil {
		d.wishlistHandler = cartv1.NewWishlistHandler(d.WishlistService(ctx))
	}

	return d.wishlistHandler
}

func (d *di) Router(_ context.Context) *chi.Mux {
	if d.router == nil {
		d.router = chi.NewRouter()
	}

	return d.router
}
