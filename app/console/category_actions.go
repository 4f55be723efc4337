package console

import (
	"context"

	"github.com/mytheresa/northwind-console/app/categories"
)

func (c *Console) listCategories(ctx context.Context) {
	list, err := c.categories.HandleGetAll(ctx)
	if err != nil {
		c.fail(err)
		return
	}

	c.println("Categories:")
	for _, cat := range list {
		c.printf("%d. %s - %s\n", cat.ID, cat.Name, optionalText(cat.Description))
	}
	c.printf("%d categories shown\n", len(list))
}

func (c *Console) listActiveCategories(ctx context.Context) {
	list, err := c.categories.HandleGetWithActiveProducts(ctx)
	if err != nil {
		c.fail(err)
		return
	}

	if len(list) == 0 {
		c.println("No category has active products.")
		return
	}
	for _, cat := range list {
		c.printf("%s\n", cat.Name)
		for i := range cat.Products {
			c.printf("  %s\n", cat.Products[i].DisplayName())
		}
	}
}

func (c *Console) addCategory(ctx context.Context) {
	c.println("=== Add New Category ===")
	f := c.form(ctx)
	in := categories.Input{
		Name:        f.ask("Enter Category Name: "),
		Description: f.ask("Enter Description: "),
	}
	if f.abandoned("add_category") {
		return
	}

	id, err := c.categories.HandleCreate(ctx, in)
	if err != nil {
		c.fail(err)
		return
	}
	c.printf("Category added successfully! (id %d)\n", id)
}

func (c *Console) editCategory(ctx context.Context) {
	c.println("=== Edit Category ===")
	f := c.form(ctx)
	idText := f.ask("Enter Category ID: ")
	if f.abandoned("edit_category") {
		return
	}

	current, err := c.categories.HandleGet(ctx, idText)
	if err != nil {
		c.fail(err)
		return
	}
	c.printf("%d. %s - %s\n", current.ID, current.Name, optionalText(current.Description))
	c.println("Leave a field blank to keep its current value.")

	in := categories.Input{
		Name:        f.ask("Category Name: "),
		Description: f.ask("Description: "),
	}
	if f.abandoned("edit_category") {
		return
	}

	result, err := c.categories.HandleUpdate(ctx, idText, in)
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
	c.println("Category updated.")
}

func (c *Console) deleteCategory(ctx context.Context) {
	f := c.form(ctx)
	idText := f.ask("Enter Category ID to delete: ")
	if f.abandoned("delete_category") {
		return
	}
	if err := c.categories.HandleDelete(ctx, idText); err != nil {
		c.fail(err)
		return
	}
	c.println("Category deleted.")
}
