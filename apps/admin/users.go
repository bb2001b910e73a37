package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
)

// addUser creates the account owning email, or resets its role-independent fields and password when it exists.
func (cli *commandLine) addUser(email, role, first, last, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	switch {
	case err == nil:
		active := true
		uu := user.UpdateUser{FirstName: usr.FirstName, LastName: usr.LastName, Phone: usr.Phone, Address: usr.Address, IsActive: &active}
		if first != "" {
			uu.FirstName = first
		}
		if last != "" {
			uu.LastName = last
		}
		if _, err = cli.usrSvc.Update(ctx, usr.ID, uu); err != nil {
			return err
		}
		return cli.usrSvc.SetPassword(ctx, email, pwd)
	case errors.Cause(err) == user.ErrNotFound:
		if first == "" {
			first = email
		}
		usr, err = cli.usrSvc.Create(ctx, user.NewUser{
			Email:     email,
			Role:      role,
			FirstName: core.CleanString(first),
			LastName:  core.CleanString(last),
			Password:  pwd,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created %s account %s\n", usr.Role, usr.ID)
		return nil
	default:
		return err
	}
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	return cli.usrSvc.SetPassword(context.Background(), email, pwd)
}

// deleteUser refuses to delete an account still referenced by a school record.
func (cli *commandLine) deleteUser(id string) error {
	ctx := context.Background()
	snap, err := school.Load(ctx, cli.backend.Store)
	if err != nil {
		return err
	}
	if flds := snap.AccountDependents(id); len(flds) > 0 {
		return core.NewInvalidRecordError(flds...)
	}

	deleted, err := cli.usrSvc.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return user.ErrNotFound
	}
	return nil
}
