package repoargs

type CreateUser struct {
	Username   string
	Password   string
	ReferredBy *int64
}
