package usecases

import (
	"context"
	"fmt"
	"time"

	"sokogate/internal/domain/preorder"
)

type CreateProductCommand struct {
	SKU              string
	Name             string
	PreorderEligible bool
	WindowStart      time.Time
	WindowEnd        time.Time
	BasePriceCents   int64
	InventoryLimit   int
}

type CreateProductUseCase struct {
	productRepo preorder.ProductRepository
}

func NewCreateProductUseCase(productRepo preorder.ProductRepository) *CreateProductUseCase {
	return &CreateProductUseCase{productRepo: productRepo}
}

func (uc *CreateProductUseCase) Execute(ctx context.Context, cmd CreateProductCommand) (*preorder.Product, error) {
	product, err := preorder.NewProduct(
		cmd.SKU,
		cmd.Name,
		cmd.PreorderEligible,
		cmd.WindowStart,
		cmd.WindowEnd,
		cmd.BasePriceCents,
		cmd.InventoryLimit,
	)
	if err != nil {
		return nil, err
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

type ListProductsUseCase struct {
	productRepo preorder.ProductRepository
}

func NewListProductsUseCase(productRepo preorder.ProductRepository) *ListProductsUseCase {
	return &ListProductsUseCase{productRepo: productRepo}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context) ([]*preorder.Product, error) {
	return uc.productRepo.List(ctx)
}

type GetProductUseCase struct {
	productRepo preorder.ProductRepository
}

func NewGetProductUseCase(productRepo preorder.ProductRepository) *GetProductUseCase {
	return &GetProductUseCase{productRepo: productRepo}
}

func (uc *GetProductUseCase) Execute(ctx context.Context, productID uint) (*preorder.Product, error) {
	return uc.productRepo.GetByID(ctx, productID)
}
