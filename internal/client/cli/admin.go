package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dataport/uplink/internal/client/models"
)

const activityLimit = 20

func (a *App) requireAdmin() bool {
	if !a.isAdmin() {
		fmt.Fprintln(a.out, "Administrator access required.")
		return false
	}
	return true
}

func (a *App) Stats(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}

	s, err := a.stats.Load(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "Users: %d (%d active, %d inactive)\n", s.TotalUsers, s.ActiveUsers, s.InactiveUsers)
	fmt.Fprintf(a.out, "Uploads: %d (%d ok, %d failed)\n", s.TotalUploads, s.SuccessfulUploads, s.FailedUploads)
	fmt.Fprintf(a.out, "Storage used: %s\n", s.StorageUsed)
	return nil
}

func (a *App) Activity(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}

	entries, err := a.activity.Load(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No recent activity.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tUSER\tACTION\tSTATUS\tDETAILS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Time.Local().Format(time.RFC822), e.User, e.Action, e.Status, e.Details)
	}
	return w.Flush()
}

func (a *App) Users(ctx context.Context, args []string) error {
	if !a.requireAdmin() {
		return nil
	}

	page := 1
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 1 {
			fmt.Fprintln(a.out, "Usage: users [page]")
			return nil
		}
		page = p
	}

	res, err := a.admin.Users(ctx, models.ListParams{Page: page, Limit: 10})
	if err != nil {
		a.report(ctx, err)
		return err
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE\tCONTAINER")
	for _, u := range res.Users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%s\n",
			shortID(u.ID), u.Email, u.Name, u.Role, u.IsActive, u.Container)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Page %d of %d (%d users)\n", res.Page, res.Pages, res.Total)
	return nil
}

// promptUserRequest collects the fields shared by user creation and editing.
func (a *App) promptUserRequest(def models.UserRequest) (models.UserRequest, error) {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return def, err
	}
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return def, err
	}
	role, err := GetSimpleText(a.reader, "Role (user/admin)", a.out)
	if err != nil {
		return def, err
	}
	containerID, err := GetSimpleText(a.reader, "Container ID", a.out)
	if err != nil {
		return def, err
	}
	active, err := GetBool(a.reader, "Active", true, a.out)
	if err != nil {
		return def, err
	}
	return models.UserRequest{
		Email:       email,
		Name:        name,
		Role:        role,
		ContainerID: containerID,
		IsActive:    active,
	}, nil
}

func (a *App) UserAdd(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}

	req, err := a.promptUserRequest(models.UserRequest{})
	if err != nil {
		return err
	}
	u, err := a.admin.CreateUser(ctx, req)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", u.Email)
	if u.TemporaryPassword != "" {
		fmt.Fprintf(a.out, "Temporary password: %s\n", u.TemporaryPassword)
	}
	return nil
}

func (a *App) UserEdit(ctx context.Context, id string) error {
	if !a.requireAdmin() {
		return nil
	}

	req, err := a.promptUserRequest(models.UserRequest{})
	if err != nil {
		return err
	}
	u, err := a.admin.UpdateUser(ctx, id, req)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", u.Email)
	return nil
}

func (a *App) UserDelete(ctx context.Context, id string) error {
	if !a.requireAdmin() {
		return nil
	}

	ok, err := GetBool(a.reader, "Delete user "+id+"?", false, a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.admin.DeleteUser(ctx, id); err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) UserToggle(ctx context.Context, id string) error {
	if !a.requireAdmin() {
		return nil
	}

	u, err := a.admin.ToggleUser(ctx, id)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	state := "deactivated"
	if u.IsActive {
		state = "activated"
	}
	fmt.Fprintf(a.out, "%s %s\n", u.Email, state)
	return nil
}

func (a *App) Accounts(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}

	accounts, err := a.admin.StorageAccounts(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if len(accounts) == 0 {
		fmt.Fprintln(a.out, "No storage accounts configured.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOCATION\tACTIVE\tCONTAINERS")
	for _, acc := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%d\n",
			shortID(acc.ID), acc.Name, acc.Location, acc.IsActive, len(acc.Containers))
	}
	return w.Flush()
}

func (a *App) promptAccountRequest() (models.StorageAccountRequest, error) {
	name, err := GetSimpleText(a.reader, "Account name", a.out)
	if err != nil {
		return models.StorageAccountRequest{}, err
	}
	conn, err := GetSimpleText(a.reader, "Connection string", a.out)
	if err != nil {
		return models.StorageAccountRequest{}, err
	}
	location, err := GetSimpleText(a.reader, "Location", a.out)
	if err != nil {
		return models.StorageAccountRequest{}, err
	}
	active, err := GetBool(a.reader, "Active", true, a.out)
	if err != nil {
		return models.StorageAccountRequest{}, err
	}
	return models.StorageAccountRequest{
		Name:             name,
		ConnectionString: conn,
		Location:         location,
		IsActive:         active,
	}, nil
}

func (a *App) AccountAdd(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}

	req, err := a.promptAccountRequest()
	if err != nil {
		return err
	}
	acc, err := a.admin.CreateStorageAccount(ctx, req)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "Created account %s\n", acc.Name)
	return nil
}

func (a *App) AccountEdit(ctx context.Context, id string) error {
	if !a.requireAdmin() {
		return nil
	}

	req, err := a.promptAccountRequest()
	if err != nil {
		return err
	}
	acc, err := a.admin.UpdateStorageAccount(ctx, id, req)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "Updated account %s\n", acc.Name)
	return nil
}

func (a *App) AccountDelete(ctx context.Context, id string) error {
	if !a.requireAdmin() {
		return nil
	}

	ok, err := GetBool(a.reader, "Delete account "+id+"?", false, a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.admin.DeleteStorageAccount(ctx, id); err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) Containers(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}

	opts, err := a.admin.Containers(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if len(opts) == 0 {
		fmt.Fprintln(a.out, "No containers.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONTAINER\tACCOUNT\tLOCATION")
	for _, o := range opts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			shortID(o.ContainerID), o.ContainerName, o.StorageAccountName, o.Location)
	}
	return w.Flush()
}

func (a *App) ContainerAdd(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}

	name, err := GetSimpleText(a.reader, "Container name", a.out)
	if err != nil {
		return err
	}
	accountID, err := GetSimpleText(a.reader, "Storage account ID", a.out)
	if err != nil {
		return err
	}
	c, err := a.admin.CreateContainer(ctx, models.ContainerRequest{Name: name, AccountID: accountID})
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "Created container %s\n", c.Name)
	return nil
}

func (a *App) ContainerDelete(ctx context.Context, id string) error {
	if !a.requireAdmin() {
		return nil
	}

	ok, err := GetBool(a.reader, "Delete container "+id+"?", false, a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.admin.DeleteContainer(ctx, id); err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}
