package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aurawell/storefront/internal/client/apiclient"
	"github.com/aurawell/storefront/internal/client/catalog"
	"github.com/aurawell/storefront/internal/client/checkout"
)

var (
	errLoginRequired = errors.New("please log in first")
	errAdminRequired = errors.New("admin access required")
)

func (sh *Shell) registry() map[string]command {
	return map[string]command{
		"help":     {"help", "list commands", sh.help},
		"quit":     {"quit", "leave the shell", func(context.Context, []string) error { return errQuit }},
		"login":    {"login [email]", "sign in", sh.login},
		"register": {"register", "create an account and sign in", sh.register},
		"logout":   {"logout", "sign out", sh.logout},
		"whoami":   {"whoami", "show the signed-in user", func(context.Context, []string) error { sh.whoami(); return nil }},
		"products": {"products [category|all] [ageGroup]", "browse the catalog", sh.products},
		"product":  {"product <id>", "show one product", sh.product},
		"cart":     {"cart", "show the cart", sh.showCart},
		"add":      {"add <id> [qty]", "add a product to the cart", sh.add},
		"inc":      {"inc <id>", "increase a line's quantity by one", sh.inc},
		"dec":      {"dec <id>", "decrease a line's quantity by one", sh.dec},
		"rm":       {"rm <id>", "remove a line from the cart", sh.remove},
		"clear":    {"clear", "empty the cart", sh.clear},
		"checkout": {"checkout", "place an order for the cart", sh.checkout},
		"orders":   {"orders", "list your orders", sh.orders},
		"admin":    {"admin products|orders|status|delete|upload", "store administration", sh.admin},
	}
}

// --- Session ---

func (sh *Shell) login(ctx context.Context, args []string) error {
	email := ""
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = sh.ask("Email"); err != nil {
			return err
		}
	}
	password, err := sh.ask("Password")
	if err != nil {
		return err
	}
	if err := sh.Session.Login(ctx, email, password); err != nil {
		return err
	}
	sh.whoami()
	return nil
}

func (sh *Shell) register(ctx context.Context, _ []string) error {
	var data apiclient.RegisterData
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"First name", &data.FirstName},
		{"Last name", &data.LastName},
		{"Email", &data.Email},
		{"Password", &data.Password},
	} {
		v, err := sh.ask(f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	if len(data.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	if err := sh.Session.Register(ctx, data); err != nil {
		return err
	}
	sh.whoami()
	return nil
}

func (sh *Shell) logout(ctx context.Context, _ []string) error {
	err := sh.Session.Logout(ctx)
	sh.printf("Signed out.\n")
	return err
}

func (sh *Shell) whoami() {
	u := sh.Session.Identity()
	if u == nil {
		sh.printf("Browsing as guest.\n")
		return
	}
	role := ""
	if sh.Session.IsAdmin() {
		role = " (admin)"
	}
	sh.printf("Signed in as %s <%s>%s\n", u.FullName(), u.Email, role)
}

// --- Catalog ---

func (sh *Shell) products(ctx context.Context, args []string) error {
	var c catalog.Criteria
	if len(args) > 0 && !strings.EqualFold(args[0], "all") {
		c.Category = strings.ToLower(args[0])
		if !catalog.Valid(catalog.Categories, c.Category) {
			return fmt.Errorf("unknown category %q", args[0])
		}
	}
	if len(args) > 1 {
		c.AgeGroup = strings.ToLower(args[1])
		if !catalog.Valid(catalog.AgeGroups, c.AgeGroup) {
			return fmt.Errorf("unknown age group %q", args[1])
		}
	}

	all, err := sh.API.ListProducts(ctx, "")
	if err != nil {
		return err
	}
	list := catalog.Filter(all, c)
	sh.printf("%s, %s: %d products\n",
		catalog.Label(catalog.Categories, c.Category), catalog.Label(catalog.AgeGroups, c.AgeGroup), len(list))
	sh.productTable(list)
	return nil
}

func (sh *Shell) product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: product <id>")
	}
	p, err := sh.API.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	sh.printf("%s\n  %s\n  Price: %s  Stock: %d\n  Category: %s  Age group: %s\n  Image: %s\n",
		p.Name, p.Description, money(p.Price), p.Stock,
		catalog.Label(catalog.Categories, p.Category), catalog.Label(catalog.AgeGroups, p.AgeGroup),
		sh.Images.Resolve(p.ImageURL))
	return nil
}

func (sh *Shell) productTable(list []apiclient.Product) {
	tw := tabwriter.NewWriter(sh.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY\tAGE")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", p.ID, p.Name, money(p.Price), p.Stock, p.Category, p.AgeGroup)
	}
	_ = tw.Flush()
}

// --- Cart ---

func (sh *Shell) showCart(context.Context, []string) error {
	if !sh.Session.IsAuthenticated() {
		return errLoginRequired
	}
	st := sh.Cart.State()
	if st.Snapshot.IsEmpty() {
		sh.printf("Your cart is empty.\n")
		return nil
	}
	tw := tabwriter.NewWriter(sh.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL\t")
	for _, it := range st.Snapshot.Items {
		mark := ""
		if st.IsPending(it.ProductID) {
			mark = "updating"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", it.ProductID, it.Name, it.Quantity, money(it.Price), money(it.Subtotal), mark)
	}
	_ = tw.Flush()
	sh.printf("%d items, total %s\n", st.Snapshot.ItemCount, money(st.Snapshot.TotalAmount))
	return nil
}

func (sh *Shell) add(ctx context.Context, args []string) error {
	if !sh.Session.IsAuthenticated() {
		return errLoginRequired
	}
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: add <id> [qty]")
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		qty = n
	}
	if err := sh.Cart.AddToCart(ctx, args[0], qty); err != nil {
		return err
	}
	sh.printf("Added. Cart has %d items.\n", sh.Cart.ItemCount())
	return nil
}

func (sh *Shell) inc(ctx context.Context, args []string) error {
	return sh.step(ctx, args, +1)
}

func (sh *Shell) dec(ctx context.Context, args []string) error {
	return sh.step(ctx, args, -1)
}

// step changes a line's quantity by delta; going below one removes the line.
func (sh *Shell) step(ctx context.Context, args []string, delta int) error {
	if !sh.Session.IsAuthenticated() {
		return errLoginRequired
	}
	if len(args) != 1 {
		return errors.New("usage: inc|dec <id>")
	}
	item, ok := sh.Cart.Snapshot().Item(args[0])
	if !ok {
		return fmt.Errorf("%s is not in your cart", args[0])
	}
	next := item.Quantity + delta
	if next < 1 {
		return sh.remove(ctx, args)
	}
	if err := sh.Cart.UpdateQuantity(ctx, item.ProductID, next); err != nil {
		return err
	}
	return sh.showCart(ctx, nil)
}

func (sh *Shell) remove(ctx context.Context, args []string) error {
	if !sh.Session.IsAuthenticated() {
		return errLoginRequired
	}
	if len(args) != 1 {
		return errors.New("usage: rm <id>")
	}
	if err := sh.Cart.RemoveFromCart(ctx, args[0]); err != nil {
		return err
	}
	sh.printf("Removed %s.\n", args[0])
	return nil
}

func (sh *Shell) clear(ctx context.Context, _ []string) error {
	if !sh.Session.IsAuthenticated() {
		return errLoginRequired
	}
	if err := sh.Cart.ClearCart(ctx); err != nil {
		return err
	}
	sh.printf("Cart cleared.\n")
	return nil
}

// --- Orders ---

func (sh *Shell) checkout(ctx context.Context, _ []string) error {
	if !sh.Session.IsAuthenticated() {
		return errLoginRequired
	}
	if sh.Cart.Snapshot().IsEmpty() {
		return checkout.ErrEmptyCart
	}
	if err := sh.showCart(ctx, nil); err != nil {
		return err
	}

	var a checkout.Address
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Full name", &a.FullName},
		{"Phone", &a.Phone},
		{"Address", &a.Street},
		{"City", &a.City},
		{"State", &a.State},
		{"Postal code", &a.PostalCode},
	} {
		v, err := sh.ask(f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	resp, err := sh.Checkout.PlaceOrder(ctx, a)
	if err != nil {
		return err
	}
	sh.printf("Order placed! Order ID: %s, total %s\n", resp.OrderID, money(resp.TotalAmount))
	return nil
}

func (sh *Shell) orders(ctx context.Context, _ []string) error {
	if !sh.Session.IsAuthenticated() {
		return errLoginRequired
	}
	list, err := sh.API.ListOrders(ctx)
	if err != nil {
		return err
	}
	sh.orderTable(list)
	return nil
}

func (sh *Shell) orderTable(list []apiclient.Order) {
	if len(list) == 0 {
		sh.printf("No orders yet.\n")
		return
	}
	tw := tabwriter.NewWriter(sh.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tPLACED\tSTATUS\tITEMS\tTOTAL")
	for _, o := range list {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		placed := time.UnixMilli(o.CreatedAt).Format("02 Jan 2006 15:04")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", o.ID, placed, o.Status, items, money(o.TotalAmount))
	}
	_ = tw.Flush()
}

// --- Admin ---

func (sh *Shell) admin(ctx context.Context, args []string) error {
	if !sh.Session.IsAdmin() {
		return errAdminRequired
	}
	if len(args) == 0 {
		return errors.New("usage: admin products|orders|status <orderId> <status>|delete <id>|upload <path>")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "products":
		list, err := sh.API.AdminListProducts(ctx)
		if err != nil {
			return err
		}
		sh.productTable(list)
	case "orders":
		list, err := sh.API.AdminListOrders(ctx)
		if err != nil {
			return err
		}
		sh.orderTable(list)
	case "status":
		if len(rest) != 2 {
			return errors.New("usage: admin status <orderId> <status>")
		}
		status := strings.ToLower(rest[1])
		if !slices.Contains(apiclient.OrderStatuses, status) {
			return fmt.Errorf("status must be one of: %s", strings.Join(apiclient.OrderStatuses, ", "))
		}
		if _, err := sh.API.AdminUpdateOrderStatus(ctx, rest[0], status); err != nil {
			return err
		}
		sh.printf("Order %s is now %s.\n", rest[0], status)
	case "delete":
		if len(rest) != 1 {
			return errors.New("usage: admin delete <id>")
		}
		if _, err := sh.API.AdminDeleteProduct(ctx, rest[0]); err != nil {
			return err
		}
		sh.printf("Product %s deleted.\n", rest[0])
	case "upload":
		if len(rest) != 1 {
			return errors.New("usage: admin upload <path>")
		}
		return sh.upload(ctx, rest[0])
	default:
		return fmt.Errorf("unknown admin command %q", sub)
	}
	return nil
}

func (sh *Shell) upload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	resp, err := sh.API.UploadImage(ctx, path, info.Size(), f)
	if err != nil {
		return err
	}
	sh.printf("Uploaded %s: %s\n", resp.FileName, sh.Images.Resolve(resp.ImageURL))
	return nil
}
