package config

func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "localhost",
			Port:      8081,
			PublicURL: "http://localhost:8081",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "chopnow_test",
			User:     "test_user",
			Password: "test_password",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			DB:   1,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Payment: PaymentConfig{
			APIBaseURL:    "http://localhost:8099",
			SecretKey:     "sk_test_123",
			WebhookSecret: "whsec_test_123",
			SuccessURL:    "http://localhost:3000/checkout/success",
			CancelURL:     "http://localhost:3000/checkout/cancelled",
			Currency:      "usd",
		},
		Shop: ShopConfig{
			DefaultDeliveryFee: 2.99,
			TaxRate:            0.08,
			StaleOrderTTLHours: 24,
		},
	}
}
