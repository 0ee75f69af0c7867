package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/kvstore --output domain/kvstore --outpkg kvstoremock --filename store_mock.go
