package cli

import (
	"fmt"

	"github.com/vigorfit/vigor/internal/models"
)

type FriendCmd struct {
	Add     FriendAddCmd     `cmd:"" help:"Send a friend request."`
	Accept  FriendAcceptCmd  `cmd:"" help:"Accept a pending request."`
	Reject  FriendRejectCmd  `cmd:"" help:"Reject a pending request."`
	List    FriendListCmd    `cmd:"" help:"List friends." default:"1"`
	Pending FriendPendingCmd `cmd:"" help:"List pending requests."`
}

type FriendAddCmd struct {
	UserID string `arg:"" help:"User id to send the request to."`
}

func (c *FriendAddCmd) Run(ctx *Context) error {
	svc, err := ctx.SocialService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if !svc.SendRequest(c.UserID) {
		return fmt.Errorf("failed to send friend request to %s", c.UserID)
	}
	fmt.Println(SuccessStyle.Render("Friend request sent to " + c.UserID))
	return nil
}

type FriendAcceptCmd struct {
	ID string `arg:"" help:"Friendship id to accept."`
}

func (c *FriendAcceptCmd) Run(ctx *Context) error {
	svc, err := ctx.SocialService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if !svc.Accept(c.ID) {
		return fmt.Errorf("could not accept request %s", c.ID)
	}
	fmt.Println(SuccessStyle.Render("Friend request accepted"))
	return nil
}

type FriendRejectCmd struct {
	ID string `arg:"" help:"Friendship id to reject."`
}

func (c *FriendRejectCmd) Run(ctx *Context) error {
	svc, err := ctx.SocialService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if !svc.Reject(c.ID) {
		return fmt.Errorf("could not reject request %s", c.ID)
	}
	fmt.Println("Friend request rejected")
	return nil
}

type FriendListCmd struct{}

func (c *FriendListCmd) Run(ctx *Context) error {
	svc, err := ctx.SocialService()
	if err != nil {
		return err
	}
	defer svc.Close()

	userID, _ := ctx.Session.CurrentUserID()
	svc.Refresh()
	friends := svc.Friends()
	if len(friends) == 0 {
		fmt.Println("No friends yet.")
		return nil
	}

	fmt.Println(TitleStyle.Render("Friends"))
	for _, f := range friends {
		fmt.Printf("  %s\n", f.OtherUser(userID))
	}
	return nil
}

type FriendPendingCmd struct{}

func (c *FriendPendingCmd) Run(ctx *Context) error {
	svc, err := ctx.SocialService()
	if err != nil {
		return err
	}
	defer svc.Close()

	userID, _ := ctx.Session.CurrentUserID()
	svc.Refresh()
	pending := svc.Pending()
	if len(pending) == 0 {
		fmt.Println("No pending requests.")
		return nil
	}

	fmt.Println(TitleStyle.Render("Pending requests"))
	for _, f := range pending {
		fmt.Printf("  %s  %s\n", f.ID, SubtleStyle.Render(describeEdge(f, userID)))
	}
	return nil
}

func describeEdge(f models.Friendship, viewerID string) string {
	if f.ReceiverID == viewerID {
		return "from " + f.SenderID
	}
	return "to " + f.ReceiverID + " (waiting)"
}
