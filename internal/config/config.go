package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir      string
	ProductsFile string
	SellersFile  string
	BuyersFile   string
	CodesFile    string
	LogLevel     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DataDir:      getenvDefault("SHOP_DATA_DIR", "."),
		ProductsFile: getenvDefault("SHOP_PRODUCTS_FILE", "products.json"),
		SellersFile:  getenvDefault("SHOP_SELLERS_FILE", "sellers.json"),
		BuyersFile:   getenvDefault("SHOP_BUYERS_FILE", "buyers.json"),
		CodesFile:    getenvDefault("SHOP_CODES_FILE", "sms.json"),
		LogLevel:     getenvDefault("SHOP_LOG_LEVEL", "info"),
	}

	return config, nil
}

func (c *Config) ProductsPath() string { return filepath.Join(c.DataDir, c.ProductsFile) }
func (c *Config) SellersPath() string  { return filepath.Join(c.DataDir, c.SellersFile) }
func (c *Config) BuyersPath() string   { return filepath.Join(c.DataDir, c.BuyersFile) }
func (c *Config) CodesPath() string    { return filepath.Join(c.DataDir, c.CodesFile) }

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
