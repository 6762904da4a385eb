// Command portal is a terminal login client for the class portal. It
// prompts for a credential, submits it through the login controller, and
// announces the dashboard the user would be routed to.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"class_portal/internal/client"
	"class_portal/internal/model"

	"golang.org/x/term"
)

// termNavigator announces navigation on stdout in place of a browser.
type termNavigator struct{}

func (termNavigator) NavigateTo(route string) {
	switch route {
	case client.RouteInstructor:
		fmt.Println("Login successful! Redirecting to the instructor dashboard...")
	case client.RouteParent:
		fmt.Println("Login successful! Redirecting to the parent dashboard...")
	default:
		fmt.Printf("Login successful! Redirecting to %s...\n", route)
	}
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "portal server base URL")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)

	api := client.NewAPIClient(*addr)
	controller := client.NewController(api, termNavigator{})
	defer controller.Close()

	role, err := promptText(reader, "Login as [instructor/parent] (default instructor): ")
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	if strings.EqualFold(role, "parent") {
		controller.SetRoleHint(model.RoleParent)
	}
	if controller.RoleHint() == model.RoleParent {
		fmt.Println("Login as Parent/Guardian")
	} else {
		fmt.Println("Login as Instructor")
	}

	email, err := promptText(reader, "Email: ")
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	password, err := promptPassword()
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	done, err := controller.Submit(email, password)
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	<-done

	if controller.State() == client.StateFailed {
		fmt.Println(controller.FailureMessage())
		os.Exit(1)
	}
	if controller.State() == client.StateSuccess && !model.ValidRole(controller.RoleID()) {
		// Authenticated, but there is no dashboard for this role.
		fmt.Println("Logged in, but no dashboard is available for your account.")
	}
}

func promptText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
