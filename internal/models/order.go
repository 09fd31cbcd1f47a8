package models

import "time"

// Order — точка-во-времени чтение заказа с торговой платформы.
// Мы заказы никогда не изменяем, только читаем.
type Order struct {
	ID                uint64
	Name              string // человеческий номер заказа, например "#1001"
	Email             string
	Phone             string
	CreatedAt         time.Time
	FinancialStatus   string
	FulfillmentStatus string
	TotalPrice        string // платформа передаёт decimal строкой
	Currency          string
	LineItems         []LineItem
}

type LineItem struct {
	Title    string
	Quantity int
	Price    string
}

// Fulfillment — одно отправление заказа (0..N на заказ).
// TrackingCompany — свободный текст, сравниваем без учёта регистра.
type Fulfillment struct {
	ID              uint64
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	TrackingCompany string
	TrackingNumber  string
	TrackingURL     string
	ShipmentStatus  string
	LineItems       []LineItem
}

// Shop — настройки магазина плюс токен доступа к платформе.
// Токен и настройки пишутся админкой/OAuth-колбэком, мы их только читаем.
type Shop struct {
	Domain          string
	AccessToken     string
	TrackingEnabled bool
	NotFoundMessage string
	BrandColor      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LookupEvent — одна запись аналитики о попытке трекинга.
type LookupEvent struct {
	EventID     string
	ShopDomain  string
	OrderNumber string
	Found       bool
	CheckedAt   time.Time
}
