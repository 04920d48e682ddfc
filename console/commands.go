package console

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/jrsteele09/go-gym-console/auth"
	"github.com/jrsteele09/go-gym-console/classes"
	"github.com/jrsteele09/go-gym-console/members"
	"github.com/jrsteele09/go-gym-console/transport"
	"github.com/jrsteele09/go-gym-console/users"
	"github.com/pkg/errors"
)

// Run dispatches one console command. Protected commands go through the
// route guard; the guard's denied callback has already printed the
// redirect-to-login hint by the time their error returns.
func (c *Console) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.usage()
		return nil
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "login":
		err = c.cmdLogin(ctx, rest)
	case "register":
		err = c.cmdRegister(ctx, rest)
	case "logout":
		err = c.auth.Logout(ctx)
	case "whoami":
		err = c.guard.Protect("whoami", c.cmdWhoami)(ctx)
	case "dashboard", "stats":
		err = c.guard.Protect("dashboard", c.cmdDashboard)(ctx)
	case "members":
		err = c.guard.Protect("members", func(ctx context.Context) error {
			return c.cmdMembers(ctx, rest)
		})(ctx)
	case "plans":
		err = c.guard.Protect("plans", func(ctx context.Context) error {
			return c.cmdPlans(ctx, rest)
		})(ctx)
	case "checkin":
		err = c.guard.Protect("checkin", func(ctx context.Context) error {
			return c.cmdCheckIn(ctx, rest)
		})(ctx)
	case "checkin-qr":
		err = c.guard.Protect("checkin", func(ctx context.Context) error {
			return c.cmdCheckInQR(ctx, rest)
		})(ctx)
	case "checkout":
		err = c.guard.Protect("checkout", func(ctx context.Context) error {
			return c.cmdCheckOut(ctx, rest)
		})(ctx)
	case "attendance":
		err = c.guard.Protect("attendance", func(ctx context.Context) error {
			return c.cmdAttendance(ctx, rest)
		})(ctx)
	case "classes":
		err = c.guard.Protect("classes", func(ctx context.Context) error {
			return c.cmdClasses(ctx, rest)
		})(ctx)
	case "staff":
		err = c.guard.Protect("staff", func(ctx context.Context) error {
			return c.cmdStaff(ctx, rest)
		})(ctx)
	default:
		c.usage()
		return errors.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		c.printError(err)
	}
	return err
}

func (c *Console) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: login <email> <password>")
	}
	user, err := c.auth.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Welcome back, %s (%s @ %s)\n", user.Name, user.Role, user.Tenant.Name)
	return nil
}

func (c *Console) cmdRegister(ctx context.Context, args []string) error {
	if len(args) != 4 {
		return errors.New("usage: register <gym-name> <your-name> <email> <password>")
	}
	user, err := c.auth.Register(ctx, auth.RegisterParams{
		GymName:              args[0],
		Name:                 args[1],
		Email:                args[2],
		Password:             args[3],
		PasswordConfirmation: args[3],
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Gym %q registered. You are signed in as %s.\n", user.Tenant.Name, user.Email)
	return nil
}

func (c *Console) cmdWhoami(ctx context.Context) error {
	user, ok := c.sess.User()
	if !ok {
		// Session restored from an older record without an identity
		// snapshot: ask the server.
		fetched, err := c.auth.Me(ctx)
		if err != nil {
			return err
		}
		user = *fetched
	}
	fmt.Fprintf(c.out, "%s <%s> role=%s gym=%s\n", user.Name, user.Email, user.Role, user.Tenant.Name)
	if info, ok := c.sess.TokenInfo(); ok && !info.ExpiresAt.IsZero() {
		fmt.Fprintf(c.out, "session expires %s\n", info.ExpiresAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (c *Console) cmdDashboard(ctx context.Context) error {
	stats, err := c.dashboard.Stats(ctx)
	if err != nil {
		return err
	}
	daily := c.attendance.DailyStats(ctx, "")
	fmt.Fprintf(c.out, "Members: %d total, %d active, %d new this month, %d expiring soon\n",
		stats.Members.Total, stats.Members.Active, stats.Members.NewThisMonth, stats.Members.ExpiringSoon)
	fmt.Fprintf(c.out, "Today: %d check-ins, %d inside, %d checked out\n",
		daily.TotalCheckins, daily.StillInside, daily.CheckedOut)
	fmt.Fprintf(c.out, "Revenue this month: %.2f\n", stats.Revenue.ThisMonth)
	fmt.Fprintf(c.out, "Subscription: %s (%s)\n", stats.Subscription.Plan, stats.Subscription.Status)
	return nil
}

func (c *Console) cmdMembers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		filter := members.Filter{}
		if len(args) > 1 {
			filter.Search = args[1]
		}
		list, err := c.members.List(ctx, filter)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NUMBER\tNAME\tPHONE\tSTATUS")
		for _, m := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.MemberNumber, m.FullName, m.Phone, m.Status)
		}
		return tw.Flush()
	case "add":
		if len(args) < 4 {
			return errors.New("usage: members add <first> <last> <phone> [email]")
		}
		params := members.CreateParams{FirstName: args[1], LastName: args[2], Phone: args[3]}
		if len(args) > 4 {
			params.Email = args[4]
		}
		created, err := c.members.Create(ctx, params)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Member %s created (#%s)\n", created.FullName, created.MemberNumber)
		return nil
	case "rm":
		if len(args) != 2 {
			return errors.New("usage: members rm <id>")
		}
		if err := c.members.Delete(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Member removed")
		return nil
	case "purchase":
		if len(args) != 4 {
			return errors.New("usage: members purchase <member-id> <plan-id> <cash|card|transfer|online>")
		}
		tx, err := c.members.PurchaseMembership(ctx, args[1], members.PurchaseParams{
			MembershipPlanID: args[2],
			PaymentMethod:    members.PaymentMethod(args[3]),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Membership purchased: %s, %.2f (%s → %s)\n", tx.TransactionNumber, tx.Amount, tx.StartDate, tx.EndDate)
		return nil
	}
	return errors.Errorf("unknown members subcommand %q", args[0])
}

func (c *Console) cmdPlans(ctx context.Context, args []string) error {
	activeOnly := len(args) == 0 || args[0] != "all"
	list, err := c.plans.List(ctx, activeOnly)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPRICE\tBILLING\tACTIVE")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%t\n", p.Name, p.Price, p.BillingPeriod, p.IsActive)
	}
	return tw.Flush()
}

func (c *Console) cmdCheckIn(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: checkin <member-id> [notes]")
	}
	notes := ""
	if len(args) > 1 {
		notes = args[1]
	}
	record, err := c.attendance.CheckIn(ctx, args[0], notes)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Checked in at %s\n", record.CheckInTime)
	return nil
}

func (c *Console) cmdCheckInQR(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: checkin-qr <scanned-code>")
	}
	record, err := c.attendance.CheckInByQR(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Checked in member %s at %s\n", record.MemberID, record.CheckInTime)
	return nil
}

func (c *Console) cmdCheckOut(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: checkout <member-id>")
	}
	record, err := c.attendance.CheckOut(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Checked out at %s\n", record.CheckOutTime)
	return nil
}

func (c *Console) cmdAttendance(ctx context.Context, args []string) error {
	date := ""
	if len(args) > 0 {
		date = args[0]
	}
	list, err := c.attendance.ListByDate(ctx, date)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MEMBER\tIN\tOUT\tMETHOD")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.MemberID, r.CheckInTime, r.CheckOutTime, r.CheckInMethod)
	}
	return tw.Flush()
}

func (c *Console) cmdClasses(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		list, err := c.classes.List(ctx, classes.Filter{})
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTYPE\tDATE\tTIME\tBOOKED\tSTATUS")
		for _, cl := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s-%s\t%d/%d\t%s\n",
				cl.Name, cl.Type, cl.Date, cl.StartTime, cl.EndTime, len(cl.Bookings), cl.MaxCapacity, cl.Status)
		}
		return tw.Flush()
	case "book":
		if len(args) != 3 {
			return errors.New("usage: classes book <class-id> <member-id>")
		}
		booking, err := c.classes.Book(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Booked (%s)\n", booking.Status)
		return nil
	}
	return errors.Errorf("unknown classes subcommand %q", args[0])
}

func (c *Console) cmdStaff(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		role := users.RoleType("")
		if len(args) > 1 {
			role = users.RoleType(args[1])
		}
		list, err := c.staff.List(ctx, role)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tEMAIL\tROLE\tACTIVE")
		for _, u := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", u.Name, u.Email, u.Role, u.IsActive)
		}
		return tw.Flush()
	case "invite":
		if len(args) != 4 {
			return errors.New("usage: staff invite <name> <email> <owner|staff|trainer>")
		}
		invitation, err := c.staff.Invite(ctx, users.InviteParams{
			Name:  args[1],
			Email: args[2],
			Role:  users.RoleType(args[3]),
		})
		if err != nil {
			return err
		}
		// Shown exactly once; the temporary password is not retrievable
		// again and must not end up anywhere else.
		fmt.Fprintf(c.out, "Invited %s. Temporary password (share now, shown once): %s\n",
			invitation.User.Email, invitation.TemporaryPassword)
		return nil
	case "activate":
		if len(args) != 2 {
			return errors.New("usage: staff activate <id>")
		}
		return c.staff.Activate(ctx, args[1])
	case "deactivate":
		if len(args) != 2 {
			return errors.New("usage: staff deactivate <id>")
		}
		return c.staff.Deactivate(ctx, args[1])
	}
	return errors.Errorf("unknown staff subcommand %q", args[0])
}

// printError renders a failure the way the views are contracted to:
// validation errors per field, connectivity and server failures as their
// own messages, nothing silently discarded.
func (c *Console) printError(err error) {
	switch transport.KindOf(err) {
	case transport.KindValidation:
		fmt.Fprintln(c.out, "Please fix the following:")
		for field, messages := range transport.FieldErrors(err) {
			for _, msg := range messages {
				fmt.Fprintf(c.out, "  %s: %s\n", field, msg)
			}
		}
	case transport.KindNetwork:
		fmt.Fprintln(c.out, "Cannot reach the server. Check your connection and try again.")
	case transport.KindServer:
		fmt.Fprintln(c.out, "The server had a problem. Please try again shortly.")
	case transport.KindUnauthorized:
		// The session-cleared listener has already printed the redirect.
	default:
		fmt.Fprintf(c.out, "Error: %s\n", err)
	}
}

func (c *Console) usage() {
	fmt.Fprintf(c.out, `%s

Commands:
  login <email> <password>       register <gym> <name> <email> <password>
  logout                         whoami
  dashboard                      plans [all]
  members [list|add|rm|purchase] attendance [date]
  checkin <member-id>            checkin-qr <code>
  checkout <member-id>           classes [list|book]
  staff [list|invite|activate|deactivate]
`, c.config.GetAppName())
}
