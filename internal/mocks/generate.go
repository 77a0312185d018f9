package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name FeedClient --dir ../usecase --output usecase/feed --outpkg feedmock --filename feed_client_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/kv --output domain/kv --outpkg kvmock --filename store_mock.go
