package repoargs

type RepositoryName string

const (
	UserRepoName              RepositoryName = "user"
	ProductRepoName           RepositoryName = "product"
	CartRepoName              RepositoryName = "cart"
	CouponRepoName            RepositoryName = "coupon"
	OrderRepoName             RepositoryName = "order"
	WalletTransactionRepoName RepositoryName = "wallet_transaction"
	GatewayIntentRepoName     RepositoryName = "gateway_intent"
)
