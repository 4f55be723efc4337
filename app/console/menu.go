package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mytheresa/northwind-console/app/categories"
	"github.com/mytheresa/northwind-console/app/products"
	"github.com/mytheresa/northwind-console/models"
	"github.com/rs/zerolog"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Key     string
	Label   string
	Submenu *Menu
	Action  func(ctx context.Context)
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

// find returns the item selected by key, or nil.
func (m *Menu) find(key string) *MenuItem {
	for i := range m.Items {
		if m.Items[i].Key == key {
			return &m.Items[i]
		}
	}
	return nil
}

type ProductActions interface {
	HandleList(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	HandleGet(ctx context.Context, idText string) (*models.Product, error)
	HandleInsert(ctx context.Context, in products.Input) (uint, error)
	HandleUpdate(ctx context.Context, idText string, in products.Input) (*products.UpdateResult, error)
	HandleDelete(ctx context.Context, idText string) error
}

type CategoryActions interface {
	HandleGetAll(ctx context.Context) ([]models.Category, error)
	HandleGetWithActiveProducts(ctx context.Context) ([]models.Category, error)
	HandleGet(ctx context.Context, idText string) (*models.Category, error)
	HandleCreate(ctx context.Context, in categories.Input) (uint, error)
	HandleUpdate(ctx context.Context, idText string, in categories.Input) (*categories.UpdateResult, error)
	HandleDelete(ctx context.Context, idText string) error
}

// Console runs the menu loop: one selection, one action, repeat.
type Console struct {
	in         *bufio.Scanner
	lines      chan string
	out        io.Writer
	products   ProductActions
	categories CategoryActions
	log        zerolog.Logger
	root       *Menu
}

func New(in io.Reader, out io.Writer, p ProductActions, c CategoryActions, log zerolog.Logger) *Console {
	con := &Console{
		in:         bufio.NewScanner(in),
		out:        out,
		products:   p,
		categories: c,
		log:        log.With().Str("component", "console").Logger(),
	}
	con.root = con.buildMenuTree()
	return con
}

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent
	for i := range menu.Items {
		if sub := menu.Items[i].Submenu; sub != nil {
			linkParents(sub, menu)
		}
	}
}

func (c *Console) buildMenuTree() *Menu {
	productMenu := &Menu{
		Title: "Product Menu",
		Items: []MenuItem{
			{Key: "1", Label: "Display Products", Action: c.listProducts},
			{Key: "2", Label: "Add New Product", Action: c.addProduct},
			{Key: "3", Label: "Edit Product", Action: c.editProduct},
			{Key: "4", Label: "Delete Product", Action: c.deleteProduct},
			{Key: "5", Label: "Show Product Details", Action: c.showProduct},
		},
	}

	categoryMenu := &Menu{
		Title: "Category Menu",
		Items: []MenuItem{
			{Key: "1", Label: "Display Categories", Action: c.listCategories},
			{Key: "2", Label: "Display Categories With Active Products", Action: c.listActiveCategories},
			{Key: "3", Label: "Add New Category", Action: c.addCategory},
			{Key: "4", Label: "Edit Category", Action: c.editCategory},
			{Key: "5", Label: "Delete Category", Action: c.deleteCategory},
		},
	}

	root := &Menu{
		Title: "Northwind Console App",
		Items: []MenuItem{
			{Key: "1", Label: "Product Menu", Submenu: productMenu},
			{Key: "2", Label: "Category Menu", Submenu: categoryMenu},
		},
	}

	linkParents(root, nil)
	return root
}

// Run shows menus until the user exits from the main menu, input ends or
// ctx is cancelled. Cancellation returns ctx.Err().
func (c *Console) Run(ctx context.Context) error {
	c.log.Info().Msg("program started")

	done := make(chan struct{})
	defer close(done)
	c.lines = make(chan string)
	scanErr := make(chan error, 1)
	go c.scan(done, scanErr)

	current := c.root
	for {
		if err := ctx.Err(); err != nil {
			c.log.Info().Err(err).Msg("interrupted, program ended")
			return err
		}
		c.render(current)

		choice, ok := c.prompt(ctx, "Select an option: ")
		if !ok {
			if err := ctx.Err(); err != nil {
				c.log.Info().Err(err).Msg("interrupted, program ended")
				return err
			}
			c.log.Info().Msg("input closed, program ended")
			return <-scanErr
		}

		if choice == "0" {
			if current.Parent == nil {
				c.log.Info().Msg("user exited the application")
				return nil
			}
			c.log.Info().Str("menu", current.Parent.Title).Msg("returning to menu")
			current = current.Parent
			continue
		}

		item := current.find(choice)
		if item == nil {
			c.log.Warn().Str("menu", current.Title).Str("choice", choice).Msg("invalid menu choice")
			c.println("Invalid choice. Try again.")
			continue
		}

		c.log.Info().Str("menu", current.Title).Str("item", item.Label).Msg("user selected menu item")
		if item.Submenu != nil {
			current = item.Submenu
			continue
		}
		item.Action(ctx)
	}
}

// scan feeds input lines to prompt until input ends or Run returns.
func (c *Console) scan(done <-chan struct{}, result chan<- error) {
	defer close(c.lines)
	for c.in.Scan() {
		select {
		case c.lines <- c.in.Text():
		case <-done:
			result <- nil
			return
		}
	}
	result <- c.in.Err()
}

func (c *Console) render(m *Menu) {
	c.println()
	c.printf("=== %s ===\n", m.Title)
	for _, item := range m.Items {
		c.printf("%s. %s\n", item.Key, item.Label)
	}
	if m.Parent == nil {
		c.println("0. Exit")
	} else {
		c.printf("0. Back to %s\n", m.Parent.Title)
	}
}

// prompt prints label and reads one trimmed line. ok is false once input
// is exhausted or ctx is cancelled.
func (c *Console) prompt(ctx context.Context, label string) (string, bool) {
	c.printf("%s", label)
	if ctx.Err() != nil {
		c.println()
		return "", false
	}
	select {
	case line, ok := <-c.lines:
		if !ok {
			c.println()
			return "", false
		}
		return strings.TrimSpace(line), true
	case <-ctx.Done():
		c.println()
		return "", false
	}
}

// form reads the answers of one action. Once input ends every later answer
// is blank and closed stays true, so the action can give up without writing.
type form struct {
	c      *Console
	ctx    context.Context
	closed bool
}

func (c *Console) form(ctx context.Context) *form {
	return &form{c: c, ctx: ctx}
}

func (f *form) ask(label string) string {
	if f.closed {
		return ""
	}
	s, ok := f.c.prompt(f.ctx, label)
	if !ok {
		f.closed = true
	}
	return s
}

// abandoned reports whether input ended while the form was filled in.
func (f *form) abandoned(action string) bool {
	if !f.closed {
		return false
	}
	f.c.log.Warn().Str("action", action).Msg("input ended before the form was complete")
	f.c.println("Input ended; nothing was changed.")
	return true
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// fail prints the one-line message for err.
func (c *Console) fail(err error) {
	c.println(Message(err))
}

// Message renders err as the single line shown to the user.
func Message(err error) string {
	switch models.KindOf(err) {
	case models.KindNone:
		return ""
	case models.KindValidation:
		return "Invalid input: " + err.Error()
	case models.KindNotFound, models.KindHasDependents:
		return capitalize(err.Error())
	default:
		return "Operation failed. Check logs for details."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
