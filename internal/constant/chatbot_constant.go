package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	// Seeded as the first model message of every fresh chat surface.
	ChatWelcomeMessage = "Hello! I am your FinVerse financial assistant. Ask me to compare products, explain financial terms, or find the best rates for you."

	// Known placeholder name emitted by corrupt upstream catalog records.
	// Sources carrying this name are never surfaced as references.
	SentinelProductName = "aaaaaaaaaaaaaaaaaa"

	// Chatbot capability endpoints
	ChatEndpoint            = "/chat"
	ProductChatEndpoint     = "/product-chat"
	CompareProductsEndpoint = "/compare-products"

	// Catalog capability endpoints
	ProductDetailEndpoint = "/products"
	OrganizationEndpoint  = "/orgs"

	// Product type labels inferred from source display names
	ProductTypeCreditCard   = "Credit Card"
	ProductTypePersonalLoan = "Personal Loan"

	// Detail keys recognized as the product type field
	DetailKeyType        = "type"
	DetailKeyProductType = "productType"
)
