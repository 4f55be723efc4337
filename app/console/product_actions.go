package console

import (
	"context"
	"strconv"

	"github.com/mytheresa/northwind-console/app/products"
	"github.com/mytheresa/northwind-console/models"
)

func (c *Console) listProducts(ctx context.Context) {
	c.println("Display products:")
	c.println("1. All")
	c.println("2. Active (Not Discontinued)")
	c.println("3. Discontinued")
	f := c.form(ctx)
	selection := f.ask("Choose a filter: ")
	if f.abandoned("list_products") {
		return
	}
	filter := products.ParseFilter(selection)

	list, err := c.products.HandleList(ctx, filter)
	if err != nil {
		c.fail(err)
		return
	}

	c.println("Products:")
	for i := range list {
		c.printf("%s %s\n", list[i].Status(), list[i].DisplayName())
	}
	c.printf("%d product(s) shown (%s)\n", len(list), filter)
}

func (c *Console) addProduct(ctx context.Context) {
	c.println("=== Add New Product ===")
	f := c.form(ctx)
	in := products.Input{
		Name:            f.ask("Enter Product Name: "),
		SupplierID:      f.ask("Enter Supplier ID (number): "),
		CategoryID:      f.ask("Enter Category ID (number): "),
		QuantityPerUnit: f.ask("Enter Quantity Per Unit: "),
		UnitPrice:       f.ask("Enter Unit Price: "),
		UnitsInStock:    f.ask("Enter Units In Stock: "),
		Discontinued:    f.ask("Is Discontinued? (y/n): "),
	}
	if f.abandoned("add_product") {
		return
	}

	id, err := c.products.HandleInsert(ctx, in)
	if err != nil {
		c.fail(err)
		c.println("Failed to add product.")
		return
	}
	c.printf("Product added successfully! (id %d)\n", id)
}

func (c *Console) editProduct(ctx context.Context) {
	c.println("=== Edit Product ===")
	f := c.form(ctx)
	idText := f.ask("Enter Product ID: ")
	if f.abandoned("edit_product") {
		return
	}

	current, err := c.products.HandleGet(ctx, idText)
	if err != nil {
		c.fail(err)
		return
	}
	c.printProduct(current)
	c.println("Leave a field blank to keep its current value.")

	in := products.Input{
		Name:            f.ask("Product Name: "),
		SupplierID:      f.ask("Supplier ID: "),
		CategoryID:      f.ask("Category ID: "),
		QuantityPerUnit: f.ask("Quantity Per Unit: "),
		UnitPrice:       f.ask("Unit Price: "),
		UnitsInStock:    f.ask("Units In Stock: "),
		Discontinued:    f.ask("Is Discontinued? (y/n): "),
	}
	if f.abandoned("edit_product") {
		return
	}

	result, err := c.products.HandleUpdate(ctx, idText, in)
	if err != nil {
		c.fail(err)
		return
	}
	for _, fe := range result.Rejected {
		c.printf("Skipped %s\n", fe.Error())
	}
	if !result.Changed {
		c.println("No changes made.")
		return
	}
	c.println("Product updated.")
}

func (c *Console) deleteProduct(ctx context.Context) {
	f := c.form(ctx)
	idText := f.ask("Enter Product ID to delete: ")
	if f.abandoned("delete_product") {
		return
	}
	if err := c.products.HandleDelete(ctx, idText); err != nil {
		c.fail(err)
		return
	}
	c.println("Product deleted.")
}

func (c *Console) showProduct(ctx context.Context) {
	f := c.form(ctx)
	idText := f.ask("Enter Product ID: ")
	if f.abandoned("show_product") {
		return
	}
	p, err := c.products.HandleGet(ctx, idText)
	if err != nil {
		c.fail(err)
		return
	}
	c.printProduct(p)
}

func (c *Console) printProduct(p *models.Product) {
	category := "-"
	if p.Category != nil {
		category = p.Category.Name
	} else if p.CategoryID != nil {
		category = strconv.FormatUint(uint64(*p.CategoryID), 10)
	}

	c.printf("%s #%d %s\n", p.Status(), p.ID, p.DisplayName())
	c.printf("  Supplier ID:       %s\n", optionalID(p.SupplierID))
	c.printf("  Category:          %s\n", category)
	c.printf("  Quantity Per Unit: %s\n", optionalText(p.QuantityPerUnit))
	c.printf("  Unit Price:        %s\n", products.Price(p.UnitPrice))
	c.printf("  Units In Stock:    %s\n", optionalInt16(p.UnitsInStock))
}

func optionalID(v *uint) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func optionalInt16(v *int16) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(int(*v))
}

func optionalText(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}
