package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/sitepress/internal/config"
	"github.com/sitepress/internal/db"
)

// 创建或确认管理员账号：go run ./scripts/init_user -email admin@example.com -password secret123
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}

	email := flag.String("email", cfg.AdminEmail, "admin email")
	password := flag.String("password", cfg.AdminPassword, "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("需要提供 -email 与 -password（或 ADMIN_EMAIL / ADMIN_PASSWORD）")
	}
	if len(*password) < 6 {
		log.Fatal("密码至少需要 6 位")
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	if err := db.EnsureUser(db.DB, *email, *password); err != nil {
		log.Fatal("创建用户失败:", err)
	}

	fmt.Println("管理员账号已就绪:", *email)
}
