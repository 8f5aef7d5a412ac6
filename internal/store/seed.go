package store

import (
	"github.com/shopspring/decimal"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

func seedProduct(name, price string, stock int, barcode, category string) domain.Product {
	amount := decimal.RequireFromString(price)
	return domain.Product{
		Category: category,
		Name:     name,
		Price:    amount,
		Cost:     amount,
		Stock:    stock,
		Barcode:  barcode,
	}
}

// DefaultProducts is the starter catalog loaded into an empty store.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		seedProduct("Intel Core i9-13900K", "589.99", 12, "CPU001", "CPUs"),
		seedProduct("AMD Ryzen 9 7950X", "549.99", 15, "CPU002", "CPUs"),
		seedProduct("Intel Core i7-13700K", "409.99", 20, "CPU003", "CPUs"),
		seedProduct("AMD Ryzen 7 7800X3D", "449.99", 18, "CPU004", "CPUs"),

		seedProduct("ASUS ROG Maximus Z790", "599.99", 8, "MB001", "Motherboards"),
		seedProduct("MSI MAG B650 Tomahawk", "249.99", 14, "MB002", "Motherboards"),
		seedProduct("Gigabyte X670 AORUS Elite", "329.99", 10, "MB003", "Motherboards"),
		seedProduct("ASRock B760M Pro", "159.99", 22, "MB004", "Motherboards"),

		seedProduct("Corsair Vengeance DDR5 32GB", "159.99", 30, "RAM001", "RAM"),
		seedProduct("G.Skill Trident Z5 RGB 64GB", "299.99", 15, "RAM002", "RAM"),
		seedProduct("Kingston Fury Beast 16GB", "79.99", 45, "RAM003", "RAM"),
		seedProduct("Crucial DDR4 32GB Kit", "89.99", 40, "RAM004", "RAM"),

		seedProduct("NVIDIA RTX 4090", "1599.99", 5, "GPU001", "Graphics Cards"),
		seedProduct("AMD RX 7900 XTX", "999.99", 8, "GPU002", "Graphics Cards"),
		seedProduct("NVIDIA RTX 4070 Ti", "799.99", 12, "GPU003", "Graphics Cards"),
		seedProduct("AMD RX 7800 XT", "499.99", 16, "GPU004", "Graphics Cards"),

		seedProduct("Samsung 990 PRO 2TB", "189.99", 25, "SSD001", "Storage"),
		seedProduct("WD Black SN850X 1TB", "119.99", 35, "SSD002", "Storage"),
		seedProduct("Crucial P5 Plus 500GB", "59.99", 50, "SSD003", "Storage"),
		seedProduct("Seagate BarraCuda 4TB HDD", "89.99", 20, "HDD001", "Storage"),
	}
}
